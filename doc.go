// Public domain.

/*
Command skymatch matches points of one file against the points of a catalog
file, on the sky or in space.

Contents

  Program overview
  Command line usage
  File formats
  Configuration
  Packages


Program overview

Input is two files of points, a catalog and a query.  Points have right
ascension and declination, or any other longitude and latitude, and may
have a radial distance.  For each query point, skymatch finds the catalog
point of least angular separation and writes one line showing the two
identifiers and the separation.

Sample run:

Here are three catalog stars and two measured positions in CSV files,

  cat.csv:               q.csv:
  id,ra,dec,dist         id,ra,dec,dist
  a,10,10,100            q1,10,10.001,101
  b,10,11,100            q2,19.9,-5,50
  c,20,-5,50

Typing "skymatch cat.csv q.csv" gives,

  Query        Match            Separation       Arcsec          Sep3D
  q1           a                   3″.600       3.6000              1
  q2           c                5′58″.630     358.6300      0.0869344

Separation is shown sexagesimal and in arc seconds.  The 3D separation,
in the unit of the distances, is shown only when every point of both files
has a distance.

With -m 3d, points are matched by 3D separation instead.  With -r, all
pairs of query and catalog points closer than the radius are listed, not
just the nearest.  The radius is in arc seconds for sky matching and in
the distance unit for 3D matching.

Giving the same file as both catalog and query matches each point to its
nearest other point.  A radius search of a file against itself does list
each point paired with itself.


Command line usage

  Usage: skymatch [options] <catalog> <query>   match query points to catalog
         skymatch -h                            display help and quick reference
         skymatch -v                            display version and copyright

  Options:
       -c <config-file>
       -m sky|3d          separation to minimize or bound
       -r <radius>        find all pairs closer than radius
       -n <nth>           match nth nearest neighbor
       -f <frame>         reference frame tag of both files
       -t <table>         SQLite table name
       -o <obscode-file>  for MPC observation files
       -w <workers>
       -M <addr>          serve prometheus metrics at addr

Command line options take precedence over environment variables, which
take precedence over the configuration file.


File formats

The format of each file is determined by its extension.

	Extension              Format
	.csv                   comma separated values
	.parquet               Parquet
	.db .sqlite .sqlite3   SQLite
	.obs .mpc .txt         MPC 80 column observations

CSV files start with a heading line.  Columns are located by name:
id (or name, desig), ra (or lon), dec (or lat), and dist (or distance).
Only the two coordinate columns are required.  Coordinates are in degrees.
An empty dist cell means the point has no distance.  Lines starting with #
are ignored.

Parquet files have rows of id, ra, dec, and an optional dist.

SQLite files are read from the table named with -t, "catalog" by default,
with columns named as for CSV files.  Rows are read in rowid order.  Without
an id column, the rowid is the identifier.

MPC observation files are read with one point per observation, identified by
the designation.  They need an obscode file, by default obscode.dat in the
directory of the observation file.  If the file is missing, skymatch
downloads a copy from the Minor Planet Center.


Configuration

The optional configuration file, skymatch.config in the current directory
unless -c is given, is a text file with one keyword or setting per line.
Empty lines and lines beginning with # are ignored.

Allowable keywords:

   headings
   noheadings
   sep3d
   nosep3d
   summary
   nosummary

Settings:

   mode=sky|3d
   nth=<n>
   radius=<r>
   workers=<n>
   brute=<n>
   loglevel=<level>
   frame=<frame>
   table=<table>
   obscode=<file>
   metrics=<addr>

White space around = is optional.  Keyword summary adds count, mean, median,
90th percentile, and maximum of the angular separations, in arc seconds.
Brute is the catalog size below which catalogs are scanned rather than
indexed.

Each setting can also be given as an environment variable, SKYMATCH_RADIUS
for example, or in a .env file in the current directory.


Packages

The matching itself is in package match, which can be used without the
command.  Package sphere has the point types and separation functions, and
package offset computes offsets and position angles relative to a point.

-------------
Public domain.
*/
package main
