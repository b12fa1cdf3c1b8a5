// Package qaparse extracts check results from QA feedback attachment pages.
//
// The automatic QA posts its results as an HTML page: one table row per
// check, a td.bullet cell holding the severity (the div class) and the check
// code (the link text), and a largeText span with the message.
package qaparse

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// Parse scrapes all QA check results out of an attachment body. Rows
// without a check code are decoration and are ignored; messages may be
// empty. Stray CR/LF around scraped values is trimmed.
func Parse(page []byte) ([]domain.QAError, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "qaparse.parse",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	var out []domain.QAError
	doc.Find("td.bullet").Each(func(_ int, td *goquery.Selection) {
		row := td.Parent()

		div := td.ChildrenFiltered("div").First()
		code := div.ChildrenFiltered("a").First().Text()
		if strings.Trim(code, "\r\n") == "" {
			return
		}
		level, _ := div.Attr("class")
		msg := row.Find("td > span.largeText").First().Text()

		out = append(out, domain.QAError{
			Code:    strings.Trim(code, "\r\n"),
			Level:   strings.Trim(level, "\r\n"),
			Message: strings.Trim(msg, "\r\n"),
		})
	})
	return out, nil
}
