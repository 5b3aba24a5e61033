/*
Package align compares two protein chains. It builds the residue
correspondence between the chains, superposes the corresponding carbon-alpha
atoms, scores the global structural similarity with a TM-score and classifies
each sequence position as a match or a mismatch.

A comparison moves through the states Loaded, Corresponded, Superposed and
Scored. A pair whose correspondence cannot determine a superposition ends in
the Skipped state instead. Skipping is a property of one pair: Compare never
panics and never affects other comparisons, so any number of them may run
concurrently.
*/
package align
