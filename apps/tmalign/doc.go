/*
Package tmalign provides a convenient wrapper for running the TM-align
program on two PDB files and reading its scores and superposition.

TM-align is optional: the results are an independent check of the scores
computed by package align, which does not need TM-align to be installed.
*/
package tmalign
