package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/five82/roster/internal/placeholder"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// render writes v in format. rows supplies the table form.
func render(w io.Writer, format string, v any, headers []string, rows [][]string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func userRows(users []placeholder.User) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{strconv.Itoa(u.ID), u.Name, "@" + u.Username, u.Email, u.Company.Name})
	}
	return rows
}

var userHeaders = []string{"ID", "NAME", "USERNAME", "EMAIL", "COMPANY"}

func userDetailRows(u placeholder.User) [][]string {
	return [][]string{
		{"ID", strconv.Itoa(u.ID)},
		{"Name", u.Name},
		{"Username", u.Username},
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Website", u.Website},
		{"City", u.Address.City},
		{"Company", u.Company.Name},
	}
}

var fieldHeaders = []string{"FIELD", "VALUE"}

func postRows(posts []placeholder.Post) [][]string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{strconv.Itoa(p.ID), strconv.Itoa(p.UserID), shorten(p.Title, 60)})
	}
	return rows
}

var postHeaders = []string{"ID", "USER", "TITLE"}

func commentRows(comments []placeholder.Comment) [][]string {
	rows := make([][]string, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, []string{strconv.Itoa(c.ID), shorten(c.Name, 40), c.Email})
	}
	return rows
}

var commentHeaders = []string{"ID", "NAME", "EMAIL"}

func shorten(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
