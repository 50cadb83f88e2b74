package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jrnv/webfuzz/internal/config"
)

func writeWordlist(t *testing.T, words []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordlist.txt")
	if err := os.WriteFile(path, []byte(strings.Join(words, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOpts(t *testing.T, serverURL, wordlistPath string) *config.Options {
	t.Helper()
	return &config.Options{
		URL:          serverURL + "/FUZZ",
		WordlistPath: wordlistPath,
		Threads:      2,
		Timeout:      5 * time.Second,
		Quiet:        true,
		NoColor:      true,
		OutputFile:   filepath.Join(t.TempDir(), "output.txt"),
		OutputFormat: "text",
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func discoveryServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin":
			fmt.Fprint(w, "admin page")
		case "/login":
			fmt.Fprint(w, "login page")
		default:
			w.WriteHeader(404)
			fmt.Fprint(w, "not found")
		}
	}))
}

func TestBasicRun(t *testing.T) {
	srv := discoveryServer()
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"admin", "login", "notexist"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.FilterStatus = []int{404}

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, srv.URL+"/admin") {
		t.Error("expected /admin URL in output")
	}
	if !strings.Contains(out, srv.URL+"/login") {
		t.Error("expected /login URL in output")
	}
	if strings.Contains(out, "notexist") {
		t.Error("unexpected /notexist in output")
	}
}

func TestVerboseRun(t *testing.T) {
	srv := discoveryServer()
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"admin", "notexist"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.FilterStatus = []int{404}
	opts.Verbose = true

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, "/admin") {
		t.Error("expected /admin path in output")
	}
	if !strings.Contains(out, "(200)") {
		t.Errorf("expected status code in verbose output, got:\n%s", out)
	}
	if !strings.Contains(out, "[Size: 10]") {
		t.Errorf("expected size in verbose output, got:\n%s", out)
	}
}

func TestJSONRun(t *testing.T) {
	srv := discoveryServer()
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"admin", "notexist"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.FilterStatus = []int{404}
	opts.OutputFormat = "json"

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	var entries []struct {
		Word   string `json:"word"`
		URL    string `json:"url"`
		Status int    `json:"status"`
		Size   int    `json:"size"`
	}
	if err := json.Unmarshal([]byte(readOutput(t, opts.OutputFile)), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Word != "admin" || entries[0].Status != 200 || entries[0].Size != 10 {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestExtensionRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/backup.zip" {
			fmt.Fprint(w, "archive")
			return
		}
		w.WriteHeader(404)
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"backup", "index"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.Extensions = []string{"zip", "tar"}
	opts.FilterStatus = []int{404}

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, "/backup.zip") {
		t.Errorf("expected /backup.zip in output, got:\n%s", out)
	}
	if strings.Contains(out, "/index") {
		t.Error("unexpected /index in output")
	}
}

func TestBodyFilterRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/hidden" {
			fmt.Fprint(w, "this contains a strange word!")
			return
		}
		fmt.Fprint(w, "regular content")
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"hidden", "visible"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.FilterBody = "strange word!"

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	out := readOutput(t, opts.OutputFile)
	if strings.Contains(out, "/hidden") {
		t.Error("unexpected /hidden in output")
	}
	if !strings.Contains(out, "/visible") {
		t.Error("expected /visible in output")
	}
}

func TestMissingWordlistFails(t *testing.T) {
	opts := &config.Options{
		URL:          "http://localhost:9999/FUZZ",
		WordlistPath: filepath.Join(t.TempDir(), "missing.txt"),
		Threads:      1,
		Quiet:        true,
	}
	if err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for missing wordlist")
	}
}

func TestMissingKeywordFails(t *testing.T) {
	wordlist := writeWordlist(t, []string{"a"})
	opts := &config.Options{
		URL:          "http://localhost:9999",
		WordlistPath: wordlist,
		Threads:      1,
		Quiet:        true,
	}
	if err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for URL without keyword")
	}
}

func TestInvalidLengthRangeFails(t *testing.T) {
	wordlist := writeWordlist(t, []string{"a"})
	opts := &config.Options{
		URL:          "http://localhost:9999/FUZZ",
		WordlistPath: wordlist,
		FilterLength: "300-20",
		Threads:      1,
		Quiet:        true,
	}
	if err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for inverted length range")
	}
}

func TestTransportErrorAbortsRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	wordlist := writeWordlist(t, []string{"a", "b", "c"})
	opts := testOpts(t, srv.URL, wordlist)

	if err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected transport error to abort the run")
	}
}
