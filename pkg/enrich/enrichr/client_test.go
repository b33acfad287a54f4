// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package enrichr

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/addList", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		require.NotEmpty(t, r.FormValue("list"))
		fmt.Fprint(w, `{"userListId": 363320, "shortId": "59lh"}`)
	})
	mux.HandleFunc("/enrich", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "363320", r.URL.Query().Get("userListId"))
		lib := r.URL.Query().Get("backgroundType")
		fmt.Fprintf(w, `{"%s": [
			[1, "apoptotic process (GO:0006915)", 0.001, -1.87, 12.9, ["CASP3", "BAX"], 0.01, 0.002, 0.02],
			[2, "cell cycle (GO:0007049)", 0.04, -0.5, 1.6, ["TP53"], 0.2, 0.05, 0.25]
		]}`, lib)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRun(t *testing.T) {
	t.Parallel()
	srv := testServer(t)

	client, err := New(WithBaseURL(srv.URL))
	require.NoError(t, err)

	rows, err := client.Run(
		[]string{"TP53", "CASP3", "BAX"},
		[]string{"GO_Biological_Process_2021", "GO_Molecular_Function_2021"},
	)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	row := rows[0]
	require.Equal(t, 1, row.Rank)
	require.Equal(t, "apoptotic process (GO:0006915)", row.Term)
	require.InDelta(t, 0.001, row.PValue, 1e-12)
	require.InDelta(t, 12.9, row.CombinedScore, 1e-12)
	require.Equal(t, []string{"CASP3", "BAX"}, row.Genes)
	require.Equal(t, "GO_Biological_Process_2021", row.Group)
	require.Equal(t, "GO_Molecular_Function_2021", rows[2].Group)
}

func TestAddListEmpty(t *testing.T) {
	t.Parallel()

	client, err := New()
	require.NoError(t, err)
	_, err = client.AddList(nil, "")
	require.Error(t, err)
}

func TestEnrichMissingLibrary(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"Other_Library": []}`)
	}))
	t.Cleanup(srv.Close)

	client, err := New(WithBaseURL(srv.URL))
	require.NoError(t, err)
	_, err = client.Enrich(1, "GO_Biological_Process_2021")
	require.Error(t, err)
}

func TestParseRow(t *testing.T) {
	t.Parallel()

	_, err := parseRow([]any{1.0, "term"})
	require.Error(t, err)

	_, err = parseRow([]any{"one", "term", 0.1, 0.1, 0.1, []any{}, 0.1, 0.1, 0.1})
	require.Error(t, err)

	row, err := parseRow([]any{3.0, "term", 0.1, 0.2, 0.3, []any{"A"}, 0.4, 0.5, 0.6})
	require.NoError(t, err)
	require.Equal(t, 3, row.Rank)
	require.Equal(t, []string{"A"}, row.Genes)
}
