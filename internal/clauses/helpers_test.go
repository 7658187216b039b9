package clauses_test

import "github.com/slate-lang/slate/internal/testutil"

type builder = testutil.ProgramBuilder

func newBuilder() *builder {
	return testutil.NewProgramBuilder()
}
