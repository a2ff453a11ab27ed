package norg_test

import (
	"testing"

	norg "github.com/norg-go/norg"
)

// These are the Go analogue of the original Rust implementation's proptest
// suite (_examples/original_source/src/lib.rs exercises infirm tags,
// carryover tags, and ranged verbatim tags with generated inputs): each
// target only asserts Parse never panics and never hangs, the same
// guarantee proptest checks for a generator-driven property.

func FuzzParseInfirmTag(f *testing.F) {
	f.Add(".tag-name_ parameter\n")
	f.Add(".tag.name.image https://example.com/repo.git\n")
	f.Add(".\n")
	f.Add(".a.b.c\n")
	f.Fuzz(func(t *testing.T, input string) {
		_, _ = norg.Parse(input)
	})
}

func FuzzParseCarryoverTag(f *testing.F) {
	f.Add("#id 123\n* tree\n")
	f.Add("#id 123\n#comment\ncomment with id\n")
	f.Add("#id 123\n")
	f.Add("+macro\n* tree\n")
	f.Fuzz(func(t *testing.T, input string) {
		_, _ = norg.Parse(input)
	})
}

func FuzzParseRangedVerbatimTag(f *testing.F) {
	f.Add("@code\nprint(\"hi\")\n@end\n")
	f.Add("@code\nfirst\n\nsecond\n@end\n")
	f.Add("@code\n@end\n")
	f.Add("@code\nunterminated\n")
	f.Fuzz(func(t *testing.T, input string) {
		_, _ = norg.Parse(input)
	})
}
