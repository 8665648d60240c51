package tracker

import (
	"context"
	"net/http"

	"github.com/google/go-github/v66/github"

	"github.com/teamoff/offdays/internal/apperrors"
)

const listPageSize = 100

// GitHubClient implements Client against the GitHub REST API.
type GitHubClient struct {
	gh    *github.Client
	owner string
	repo  string
}

// NewGitHubClient wraps an already-authenticated *github.Client for one data
// repository.
func NewGitHubClient(gh *github.Client, owner, repo string) *GitHubClient {
	return &GitHubClient{gh: gh, owner: owner, repo: repo}
}

// NewGitHubClientWithToken builds a client authenticated with a bearer
// token.
func NewGitHubClientWithToken(token, owner, repo string) *GitHubClient {
	return NewGitHubClient(github.NewClient(nil).WithAuthToken(token), owner, repo)
}

// NewGitHubClientWithTransport builds a client over a custom transport
// (e.g. an app installation token transport).
func NewGitHubClientWithTransport(tr http.RoundTripper, owner, repo string) *GitHubClient {
	return NewGitHubClient(github.NewClient(&http.Client{Transport: tr}), owner, repo)
}

func (c *GitHubClient) ListOpenIssues(ctx context.Context) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var issues []Issue
	for {
		page, resp, err := c.gh.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, classify(err, "list issues")
		}
		for _, is := range page {
			issues = append(issues, fromGitHubIssue(is))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return issues, nil
}

func (c *GitHubClient) GetIssue(ctx context.Context, number int) (*Issue, error) {
	is, _, err := c.gh.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, classify(err, "get issue")
	}
	issue := fromGitHubIssue(is)
	return &issue, nil
}

func (c *GitHubClient) CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error) {
	is, _, err := c.gh.Issues.Create(ctx, c.owner, c.repo, &github.IssueRequest{
		Title:  github.String(title),
		Body:   github.String(body),
		Labels: &labels,
	})
	if err != nil {
		return nil, classify(err, "create issue")
	}
	issue := fromGitHubIssue(is)
	return &issue, nil
}

func (c *GitHubClient) UpdateIssue(ctx context.Context, number int, changes Changes) (*Issue, error) {
	req := &github.IssueRequest{
		Title:  changes.Title,
		Body:   changes.Body,
		Labels: changes.Labels,
		State:  changes.State,
	}
	is, _, err := c.gh.Issues.Edit(ctx, c.owner, c.repo, number, req)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, classify(err, "update issue")
	}
	issue := fromGitHubIssue(is)
	return &issue, nil
}

func (c *GitHubClient) GetFileContent(ctx context.Context, path string) ([]byte, error) {
	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, path, nil)
	if err != nil {
		return nil, classify(err, "get file content")
	}
	if file == nil {
		return nil, apperrors.Newf(apperrors.CodeRemote, "%s is not a file", path)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRemote, "decode file content", err)
	}
	return []byte(content), nil
}

func (c *GitHubClient) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", classify(err, "get authenticated user")
	}
	return user.GetLogin(), nil
}

func fromGitHubIssue(is *github.Issue) Issue {
	labels := make([]string, 0, len(is.Labels))
	for _, l := range is.Labels {
		labels = append(labels, l.GetName())
	}
	return Issue{
		Number:      is.GetNumber(),
		Title:       is.GetTitle(),
		Body:        is.GetBody(),
		Labels:      labels,
		HTMLURL:     is.GetHTMLURL(),
		CreatedAt:   is.GetCreatedAt().Time,
		State:       is.GetState(),
		PullRequest: is.IsPullRequest(),
	}
}
