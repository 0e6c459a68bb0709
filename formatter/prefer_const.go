package formatter

// PreferConstFormatter renders prefer-const issues. The suggestion is a bare
// keyword replacement, so the suggestion block is skipped in favor of the
// note listing the never-reassigned names.
type PreferConstFormatter struct{}

func (f *PreferConstFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent}}

{{- if .Note }}
{{note .Note}}
{{- end }}
`
}
