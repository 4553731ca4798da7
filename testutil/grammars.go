package testutil

// Canned grammars in the text format.
const (
	// Plant branches until one step before the maximum depth and only grows
	// leaf clusters at even depths.
	Plant = `# branching plant
X
-1 X = T[+X][-X]sL
T = TT
%L = [+L][-L]
`

	// Binary is a symmetric binary tree.
	Binary = `X
X = T[+X]-X
`

	// Alternating swaps between two rules by depth parity.
	Alternating = `A
%A = aA
^A = bA
`

	// Sprout stops producing after two levels.
	Sprout = `A
2 A = aA
`
)

// Grammars maps a name to each canned grammar.
var Grammars = map[string]string{
	"plant":       Plant,
	"binary":      Binary,
	"alternating": Alternating,
	"sprout":      Sprout,
}
