// Public domain.

package main

import "github.com/soniakeys/skymatch/internal/smprog"

func main() {
	smprog.Main()
}
