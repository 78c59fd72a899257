// Package query evaluates JSONPath expressions over settings documents.
//
//	matches, err := query.SelectDocument(doc, "$.ui.display.*.value")
//	for _, m := range matches {
//	    fmt.Println(query.Format(m))
//	}
package query
