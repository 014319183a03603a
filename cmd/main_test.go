package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qna-board/internal/config"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	assert.Equal(t, "config.env", parseFlags())
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	assert.Equal(t, "myconfig.env", parseFlags())
}

func TestPrintBuildInfo_Output(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2026-01-02"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	output := buf.String()
	assert.Contains(t, output, "v1.0.0")
	assert.Contains(t, output, "abcd1234")
	assert.Contains(t, output, "2026-01-02")
}

// TestRun_EndToEnd boots the whole service against a throwaway sqlite file and
// walks the register/login/post/answer flow over real HTTP.
func TestRun_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}

	const addr = "127.0.0.1:43611"
	base := "http://" + addr + "/api"

	var cfg config.Config
	cfg.Server.Addr = addr
	cfg.Database.Dialect = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "board.sqlite")
	cfg.JWT.Secret = "test_secret"
	cfg.JWT.ExpSecond = 3600
	cfg.Log.Level = "error"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(15 * time.Second):
			t.Error("server did not shut down in time")
		}
	})

	waitForServer(t, base+"/posts")

	client := &http.Client{Timeout: 5 * time.Second}

	// register
	resp := doJSON(t, client, http.MethodPost, base+"/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered struct {
		User struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	decodeBody(t, resp, &registered)
	assert.Equal(t, "alice", registered.User.Username)

	// login
	resp = doJSON(t, client, http.MethodPost, base+"/login", "", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	require.NotEmpty(t, login.Token)

	// creating a post requires the token
	resp = doJSON(t, client, http.MethodPost, base+"/posts", "", map[string]string{
		"title": "nope", "content": "nope",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPost, base+"/posts", login.Token, map[string]string{
		"title":   "How do I do X?",
		"content": "Long question body",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post struct {
		ID           int64 `json:"id"`
		ViewCount    int   `json:"view_count"`
		CommentCount int   `json:"comment_count"`
	}
	decodeBody(t, resp, &post)
	assert.Equal(t, 99, post.ViewCount)
	assert.Equal(t, 1, post.CommentCount)

	// answer it
	answersURL := fmt.Sprintf("%s/posts/%d/answers", base, post.ID)
	resp = doJSON(t, client, http.MethodPost, answersURL, login.Token, map[string]string{
		"content": "  Have you tried Y?  ",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var answer struct {
		Content string `json:"content"`
	}
	decodeBody(t, resp, &answer)
	assert.Equal(t, "Have you tried Y?", answer.Content)

	// detail read shows the bumped counter and the answer
	resp = doJSON(t, client, http.MethodGet, fmt.Sprintf("%s/posts/%d", base, post.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		CommentCount int `json:"comment_count"`
		Answers      []struct {
			Content string `json:"content"`
		} `json:"answers"`
	}
	decodeBody(t, resp, &detail)
	assert.Equal(t, 2, detail.CommentCount)
	require.Len(t, detail.Answers, 1)

	// missing post stays a 404
	resp = doJSON(t, client, http.MethodGet, base+"/posts/9999", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func waitForServer(t *testing.T, url string) {
	t.Helper()
	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("server did not start in time")
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
