package outline

import (
	"context"
	"testing"

	"github.com/aretw0/tinysplit/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `(ROOT
:name demo
@ intro
hello *world*
@ body
(NESTED
)
)
`

func TestMarkdown_Scopes(t *testing.T) {
	records, _, err := runner.CollectString(context.Background(), doc)
	require.NoError(t, err)

	want := "- `(ROOT`\n" +
		"  - `:name demo`\n" +
		"    - `@ intro`\n" +
		"    - `@ body`\n" +
		"      - `(NESTED`\n"
	assert.Equal(t, want, Markdown(records))
}

func TestMarkdown_TextAndTitle(t *testing.T) {
	records, _, err := runner.CollectString(context.Background(), "(A\nhello *world*\n\n)\n")
	require.NoError(t, err)

	want := "# Doc\n\n" +
		"- `(A`\n" +
		"  - hello \\*world\\*\n"
	assert.Equal(t, want, Markdown(records, WithTitle("Doc"), WithText()))
}

func TestCodeSpan(t *testing.T) {
	assert.Equal(t, "`(A`", codeSpan("(A"))
	assert.Equal(t, "``a`b``", codeSpan("a`b"))
	assert.Equal(t, "`` `x ``", codeSpan("`x"))
}
