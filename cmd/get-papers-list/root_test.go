// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const efetchBody = `<?xml version="1.0" ?>
<PubmedArticleSet>
<PubmedArticle>
	<MedlineCitation>
		<PMID Version="1">111</PMID>
		<Article>
			<Journal><JournalIssue><PubDate><Year>2023</Year><Month>Mar</Month><Day>7</Day></PubDate></JournalIssue></Journal>
			<ArticleTitle>Kinase inhibitors in oncology</ArticleTitle>
			<AuthorList>
				<Author><LastName>Doe</LastName><ForeName>Jane</ForeName>
					<AffiliationInfo><Affiliation>Pfizer Inc., New York. jane@pfizer.com</Affiliation></AffiliationInfo></Author>
				<Author><LastName>Smith</LastName><ForeName>John</ForeName>
					<AffiliationInfo><Affiliation>Harvard University</Affiliation></AffiliationInfo></Author>
			</AuthorList>
		</Article>
	</MedlineCitation>
</PubmedArticle>
<PubmedArticle>
	<MedlineCitation>
		<PMID Version="1">222</PMID>
		<Article>
			<ArticleTitle>An academic study</ArticleTitle>
			<AuthorList>
				<Author><LastName>Lee</LastName><ForeName>Ann</ForeName>
					<AffiliationInfo><Affiliation>Stanford University</Affiliation></AffiliationInfo></Author>
			</AuthorList>
		</Article>
	</MedlineCitation>
</PubmedArticle>
</PubmedArticleSet>`

type fakeNCBI struct {
	mu      sync.Mutex
	ids     []string
	status  int
	queries []map[string][]string
}

func (f *fakeNCBI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, r.URL.Query())

	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	if strings.HasSuffix(r.URL.Path, "/esearch.fcgi") {
		fmt.Fprint(w, "<eSearchResult><IdList>")
		for _, id := range f.ids {
			fmt.Fprintf(w, "<Id>%s</Id>", id)
		}
		fmt.Fprint(w, "</IdList></eSearchResult>")
		return
	}
	fmt.Fprint(w, efetchBody)
}

func (f *fakeNCBI) requests() []map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

// setup isolates the working directory, home, and environment, and points
// the CLI at a fake E-utilities server.
func setup(t *testing.T, fake *fakeNCBI) string {
	t.Helper()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("PUBMED_FETCHER_BASE_URL", ts.URL)
	t.Setenv("PUBMED_FETCHER_BATCH_DELAY", "0s")
	t.Setenv("PUBMED_FETCHER_API_KEY", "")
	t.Setenv("PUBMED_FETCHER_EMAIL", "")
	return dir
}

func execute(args ...string) (string, string, error) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRun_CSVToStdout(t *testing.T) {
	setup(t, &fakeNCBI{ids: []string{"111", "222"}})

	stdout, _, err := execute("cancer")
	require.NoError(t, err)

	want := "PubmedID,Title,Publication Date,Non-academic Author(s),Company Affiliation(s),Corresponding Author Email\r\n" +
		"111,Kinase inhibitors in oncology,2023-03-07,Jane Doe,\"Pfizer Inc., New York. jane@pfizer.com\",jane@pfizer.com\r\n"
	assert.Equal(t, want, stdout)
}

func TestRun_NoPapers(t *testing.T) {
	fake := &fakeNCBI{}
	setup(t, fake)

	stdout, _, err := execute("nothing matches")
	require.NoError(t, err)
	assert.Equal(t, noPapersMessage+"\n", stdout)
	assert.Len(t, fake.requests(), 1, "empty search must not trigger a detail fetch")
}

func TestRun_WritesFile(t *testing.T) {
	dir := setup(t, &fakeNCBI{ids: []string{"111"}})
	path := filepath.Join(dir, "out.csv")

	stdout, _, err := execute("cancer", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, "Results saved to "+path+"\n", stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "PubmedID,Title,"))
	assert.Contains(t, string(data), "111,Kinase inhibitors in oncology")
}

func TestRun_JSONFormat(t *testing.T) {
	setup(t, &fakeNCBI{ids: []string{"111"}})

	stdout, _, err := execute("cancer", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"pubmed_id": "111"`)
}

func TestRun_SQLiteRequiresFile(t *testing.T) {
	setup(t, &fakeNCBI{ids: []string{"111"}})

	_, stderr, err := execute("cancer", "--format", "sqlite")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: --format sqlite requires --file")
}

func TestRun_SQLiteExport(t *testing.T) {
	dir := setup(t, &fakeNCBI{ids: []string{"111"}})
	path := filepath.Join(dir, "out.db")

	stdout, _, err := execute("cancer", "--format", "sqlite", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "Results saved to "+path+"\n", stdout)
	assert.FileExists(t, path)
}

func TestRun_DebugMessages(t *testing.T) {
	setup(t, &fakeNCBI{ids: []string{"111"}})

	_, stderr, err := execute("cancer", "--debug", "--max-results", "5")
	require.NoError(t, err)

	assert.Contains(t, stderr, "Fetching papers for query: cancer")
	assert.Contains(t, stderr, "Maximum results: 5")
	assert.Contains(t, stderr, "Found 1 papers with pharmaceutical/biotech authors")
	assert.Less(t, strings.Index(stderr, "Fetching papers"), strings.Index(stderr, "Found 1 papers"))
}

func TestRun_MaxResultsIsSentAsRetmax(t *testing.T) {
	fake := &fakeNCBI{}
	setup(t, fake)

	_, _, err := execute("cancer", "--max-results", "25")
	require.NoError(t, err)
	require.NotEmpty(t, fake.requests())
	assert.Equal(t, "25", fake.requests()[0]["retmax"][0])
}

func TestRun_ServerErrorExitsWithMessage(t *testing.T) {
	setup(t, &fakeNCBI{status: http.StatusInternalServerError})

	stdout, stderr, err := execute("cancer")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: searching PubMed")
}

func TestRun_InvalidMaxResults(t *testing.T) {
	setup(t, &fakeNCBI{})

	_, stderr, err := execute("cancer", "--max-results", "0")
	require.Error(t, err)
	assert.Contains(t, stderr, "max_results")
}

func TestRun_RequiresExactlyOneQuery(t *testing.T) {
	setup(t, &fakeNCBI{})

	_, _, err := execute()
	assert.Error(t, err)

	_, _, err = execute("a", "b")
	assert.Error(t, err)
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := execute("--version")
	require.NoError(t, err)
	assert.Equal(t, "get-papers-list version dev\n", stdout)
}

func TestRun_SecretsAndConfigFile(t *testing.T) {
	fake := &fakeNCBI{}
	dir := setup(t, fake)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".secrets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".secrets", "ncbi-api-key"), []byte("key-123\n"), 0o600))

	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tool: my-tool\nemail: me@example.org\n"), 0o644))

	_, _, err := execute("cancer", "--config", cfgPath)
	require.NoError(t, err)

	require.NotEmpty(t, fake.requests())
	q := fake.requests()[0]
	assert.Equal(t, "key-123", q["api_key"][0])
	assert.Equal(t, "my-tool", q["tool"][0])
	assert.Equal(t, "me@example.org", q["email"][0])
}

func TestRun_MissingExplicitConfigFile(t *testing.T) {
	setup(t, &fakeNCBI{})

	_, stderr, err := execute("cancer", "--config", "does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, stderr, "reading config")
}

func TestRun_MetricsFile(t *testing.T) {
	dir := setup(t, &fakeNCBI{ids: []string{"111"}})
	path := filepath.Join(dir, "fetch.prom")

	_, _, err := execute("cancer", "--metrics-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `pubmed_fetcher_requests_total{endpoint="esearch",status="200"} 1`)
	assert.Contains(t, string(data), "pubmed_fetcher_papers_kept 1")
}
