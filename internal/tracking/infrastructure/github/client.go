// Package github fetches per-member repository activity from the GitHub
// REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
)

// DefaultAPIURL is the public GitHub REST API base.
const DefaultAPIURL = "https://api.github.com"

const perPage = 100

// Client is a token-scoped GitHub REST client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client authenticating with the given token.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), source)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type pullResponse struct {
	Title     string     `json:"title"`
	HTMLURL   string     `json:"html_url"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
}

// ListCommits returns the repository's commits authored by the given
// user, most recent first.
func (c *Client) ListCommits(ctx context.Context, owner, repo, author string) ([]domain.Commit, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?author=%s&per_page=%d",
		c.baseURL, owner, repo, url.QueryEscape(author), perPage)

	var raw []commitResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("list commits for %s: %w", author, err)
	}

	commits := make([]domain.Commit, 0, len(raw))
	for _, item := range raw {
		commits = append(commits, domain.Commit{
			Message: item.Commit.Message,
			Date:    item.Commit.Author.Date,
			SHA:     item.SHA,
			Author:  item.Commit.Author.Name,
		})
	}
	return commits, nil
}

// ListPullRequests returns the repository's pull requests opened by the
// given user. The pulls endpoint has no author filter, so the full page
// is fetched and filtered client-side.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo, author string) ([]domain.PullRequest, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls?state=all&per_page=%d",
		c.baseURL, owner, repo, perPage)

	var raw []pullResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("list pull requests: %w", err)
	}

	var pulls []domain.PullRequest
	for _, item := range raw {
		if item.User.Login != author {
			continue
		}
		pulls = append(pulls, domain.PullRequest{
			Title:    item.Title,
			URL:      item.HTMLURL,
			State:    item.State,
			OpenedAt: item.CreatedAt,
			ClosedAt: item.ClosedAt,
		})
	}
	return pulls, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}
