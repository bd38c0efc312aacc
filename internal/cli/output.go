package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

func printSection(w io.Writer, title string) {
	title = titleCaser.String(title)
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func printKeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%-28s %v\n", titleCaser.String(key)+":", value)
}
