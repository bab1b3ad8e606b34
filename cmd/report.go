/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/klangspor/track-radar/internal/discovery"
)

// candidateReport is a selection result rendered as a ranked table plus one
// explanation block per candidate.
type candidateReport struct {
	title      string
	candidates []discovery.Candidate
}

func (r candidateReport) rows() [][]string {
	rows := [][]string{{"#", "Artist", "Title", "Score", "Why"}}
	for i, c := range r.candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.ArtistName,
			c.Title,
			fmt.Sprintf("%.2f", c.Score),
			c.Summary,
		})
	}
	return rows
}

func (r candidateReport) String() string {
	out := new(bytes.Buffer)
	fmt.Fprintf(out, "%s (%d candidates)\n", r.title, len(r.candidates))
	if len(r.candidates) == 0 {
		return out.String()
	}

	rows := r.rows()
	table := tablewriter.NewWriter(out)
	table.Header(rows[0])
	for _, row := range rows[1:] {
		if err := table.Append(row); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}

	for _, c := range r.candidates {
		fmt.Fprintf(out, "\n%s - %s\n", c.ArtistName, c.Title)
		for _, why := range c.WhySelected {
			fmt.Fprintf(out, "  + %s\n", why)
		}
		for _, risk := range c.RiskFlags {
			fmt.Fprintf(out, "  ! %s\n", risk)
		}
	}
	return out.String()
}

// html renders the report for email delivery: a table of candidates followed
// by their reasons and risks.
func (r candidateReport) html() string {
	var out strings.Builder
	fmt.Fprintf(&out, "<h2>%s</h2>\n", r.title)
	if len(r.candidates) == 0 {
		out.WriteString("<div>No candidates found.</div>\n")
		return out.String()
	}

	rows := r.rows()
	out.WriteString("<table>\n<thead>\n<tr>\n")
	for _, header := range rows[0] {
		fmt.Fprintf(&out, "<th>%s</th>", header)
	}
	out.WriteString("\n</tr>\n</thead>\n<tbody>\n")
	for _, row := range rows[1:] {
		out.WriteString("<tr>\n")
		for _, column := range row {
			fmt.Fprintf(&out, "<td>%s</td>\n", column)
		}
		out.WriteString("</tr>\n")
	}
	out.WriteString("</tbody>\n</table>\n")

	for _, c := range r.candidates {
		fmt.Fprintf(&out, "<h3>%s - %s</h3>\n<ul>\n", c.ArtistName, c.Title)
		for _, why := range c.WhySelected {
			fmt.Fprintf(&out, "<li>%s</li>\n", why)
		}
		for _, risk := range c.RiskFlags {
			fmt.Fprintf(&out, "<li>Risk: %s</li>\n", risk)
		}
		out.WriteString("</ul>\n")
	}
	return out.String()
}
