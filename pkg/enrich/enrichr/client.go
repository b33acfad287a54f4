// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package enrichr is a client for the Enrichr web service, the second
// enrichment backend next to the local gene-set engine.
package enrichr

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the Enrichr API endpoint.
const DefaultBaseURL = "http://amp.pharm.mssm.edu/Enrichr"

// DefaultLibraries are the gene-set libraries queried when none are
// requested explicitly.
var DefaultLibraries = []string{
	"GO_Biological_Process_2021",
	"GO_Cellular_Component_2021",
	"GO_Molecular_Function_2021",
}

// Row is one enrichment result row as returned by the service.
type Row struct {
	Rank          int      `json:"rank"`
	Term          string   `json:"term"`
	PValue        float64  `json:"p"`
	ZScore        float64  `json:"z"`
	CombinedScore float64  `json:"combined_score"`
	Genes         []string `json:"genes"`
	QValue        float64  `json:"q"`
	OldPValue     float64  `json:"old_p"`
	OldQValue     float64  `json:"old_q"`

	// Group tags the library the row came from
	Group string `json:"group"`
}

// Client talks to the Enrichr REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

type fnOpt func(*Client) error

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(base string) fnOpt {
	return func(c *Client) error {
		if base == "" {
			return fmt.Errorf("base URL not defined")
		}
		c.baseURL = strings.TrimRight(base, "/")
		return nil
	}
}

// WithHTTPClient swaps the underlying http client.
func WithHTTPClient(hc *http.Client) fnOpt {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client not defined")
		}
		c.http = hc
		return nil
	}
}

// New creates an Enrichr client.
func New(funcs ...fnOpt) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, fn := range funcs {
		if err := fn(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddList uploads a gene list and returns the server-side list ID.
func (c *Client) AddList(genes []string, description string) (int, error) {
	if len(genes) == 0 {
		return 0, fmt.Errorf("gene list is empty")
	}

	body := &strings.Builder{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("list", strings.Join(genes, "\n")); err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	if err := mw.WriteField("description", description); err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+"/addList", mw.FormDataContentType(), strings.NewReader(body.String()))
	if err != nil {
		return 0, fmt.Errorf("uploading gene list: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("uploading gene list: server replied %s", resp.Status)
	}

	reply := struct {
		UserListID int `json:"userListId"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return 0, fmt.Errorf("decoding addList reply: %w", err)
	}
	if reply.UserListID == 0 {
		return 0, fmt.Errorf("server did not assign a list ID")
	}
	return reply.UserListID, nil
}

// Enrich fetches the enrichment of an uploaded list against one
// gene-set library.
func (c *Client) Enrich(userListID int, library string) ([]*Row, error) {
	q := url.Values{}
	q.Set("userListId", strconv.Itoa(userListID))
	q.Set("backgroundType", library)

	resp, err := c.http.Get(c.baseURL + "/enrich?" + q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetching enrichment results: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching enrichment results: server replied %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading enrichment reply: %w", err)
	}

	// Reply shape: {"<library>": [[rank, term, p, z, combined, [genes], q, old-p, old-q], ...]}
	reply := map[string][][]any{}
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("decoding enrichment reply: %w", err)
	}
	raw, ok := reply[library]
	if !ok {
		return nil, fmt.Errorf("reply has no results for library %s", library)
	}

	rows := make([]*Row, 0, len(raw))
	for i, rec := range raw {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("parsing result row %d: %w", i, err)
		}
		row.Group = library
		rows = append(rows, row)
	}
	return rows, nil
}

// Run uploads the gene list and queries every library, returning the
// merged table.
func (c *Client) Run(genes []string, libraries []string) ([]*Row, error) {
	if len(libraries) == 0 {
		libraries = DefaultLibraries
	}

	listID, err := c.AddList(genes, "biofrost gene list")
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Uploaded %d genes as Enrichr list %d", len(genes), listID)

	merged := []*Row{}
	for _, lib := range libraries {
		rows, err := c.Enrich(listID, lib)
		if err != nil {
			return nil, fmt.Errorf("enriching against %s: %w", lib, err)
		}
		logrus.Infof("%s: %d terms", lib, len(rows))
		merged = append(merged, rows...)
	}
	return merged, nil
}

func parseRow(rec []any) (*Row, error) {
	if len(rec) < 9 {
		return nil, fmt.Errorf("row has %d fields, want 9", len(rec))
	}

	row := &Row{}
	fields := []struct {
		dst *float64
		idx int
	}{
		{&row.PValue, 2}, {&row.ZScore, 3}, {&row.CombinedScore, 4},
		{&row.QValue, 6}, {&row.OldPValue, 7}, {&row.OldQValue, 8},
	}

	rank, ok := rec[0].(float64)
	if !ok {
		return nil, fmt.Errorf("rank is not numeric")
	}
	row.Rank = int(rank)

	if row.Term, ok = rec[1].(string); !ok {
		return nil, fmt.Errorf("term is not a string")
	}

	for _, f := range fields {
		v, ok := rec[f.idx].(float64)
		if !ok {
			return nil, fmt.Errorf("field %d is not numeric", f.idx)
		}
		*f.dst = v
	}

	genes, ok := rec[5].([]any)
	if !ok {
		return nil, fmt.Errorf("gene list field is not an array")
	}
	for _, g := range genes {
		name, ok := g.(string)
		if !ok {
			return nil, fmt.Errorf("gene list entry is not a string")
		}
		row.Genes = append(row.Genes, name)
	}
	return row, nil
}
