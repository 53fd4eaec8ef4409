// Command pairalign aligns sequences pairwise with affine gap penalties.
//
// Usage:
//
//	pairalign [command] [flags]
//
// Commands:
//
//	align       Local alignment (Smith-Waterman-Gotoh)
//	global      Global alignment (Needleman-Wunsch-Gotoh)
//	extend      Anchored extension from one end
//	batch       Align one query against many targets
//	profile     Show the homopolymer gap profile of a sequence
//	version     Show version information
package main

func main() {
	Execute()
}
