package platforms

import (
	"context"

	"github.com/sw33tLie/genscope/pkg/scope"
)

// ProgramFetcher retrieves and extracts a single program from a bug bounty platform.
type ProgramFetcher interface {
	Name() string
	// ProgramURL returns the page a program slug resolves to.
	ProgramURL(slug string) string
	FetchProgram(ctx context.Context, slug string) (scope.Program, error)
}
