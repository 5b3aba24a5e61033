/*
Package rmsd implements the Kabsch algorithm for finding the rigid body
transformation (a proper rotation followed by a translation) that minimizes
the root-mean-square deviation between two paired sets of points. The
algorithm is described in detail here: http://cnx.org/content/m11608/latest/

The transformation found by Fit can be applied to any set of coordinates, not
just the points used to compute it. This is how a full structure is moved into
the frame of another structure after fitting only on their carbon-alpha atoms.
*/
package rmsd
