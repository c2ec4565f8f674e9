package completion

import (
	"fmt"

	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/analysis"
)

// Trigger is the condition under which a provider fires.
type Trigger struct {
	Command   string           // e.g. `\definecolor`; compared case-sensitively
	Kind      texlsp.GroupKind // which kind of argument Argument counts
	Argument  int
	Languages texlsp.LanguageSet
}

// Matches reports whether ctx, found in a document of language lang,
// satisfies the trigger. Every field must match exactly.
func (t Trigger) Matches(ctx analysis.Context, lang texlsp.Language) bool {
	return t.Command == ctx.Command &&
		t.Kind == ctx.Kind &&
		t.Argument == ctx.Argument &&
		t.Languages.Has(lang)
}

func (t Trigger) String() string {
	return fmt.Sprintf("%s %s#%d %s", t.Command, t.Kind, t.Argument, t.Languages)
}
