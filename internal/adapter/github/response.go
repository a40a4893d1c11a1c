package github

import (
	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

// Placeholder used when the API reports no repository description.
const noDescription = "No description"

// Length of the abbreviated commit identifier.
const shortIDLen = 7

type searchResponse struct {
	Items []searchResponseItem `json:"items"`
}

type searchResponseItem struct {
	Name            string                  `json:"name"`
	FullName        string                  `json:"full_name"`
	Owner           searchResponseItemOwner `json:"owner"`
	HTMLURL         string                  `json:"html_url"`
	Description     *string                 `json:"description"`
	StargazersCount int                     `json:"stargazers_count"`
	Language        string                  `json:"language"`
	CreatedAt       string                  `json:"created_at"`
	UpdatedAt       string                  `json:"updated_at"`
}

type searchResponseItemOwner struct {
	Login string `json:"login"`
}

func (s searchResponse) ToProjects() []app.Project {
	ps := make([]app.Project, 0, len(s.Items))
	for _, i := range s.Items {
		description := noDescription
		if i.Description != nil && *i.Description != "" {
			description = *i.Description
		}

		ps = append(ps, app.Project{
			Name:        i.Name,
			FullName:    i.FullName,
			OwnerLogin:  i.Owner.Login,
			URL:         i.HTMLURL,
			Description: description,
			Stars:       i.StargazersCount,
			Language:    i.Language,
			CreatedAt:   i.CreatedAt,
			UpdatedAt:   i.UpdatedAt,
		})
	}

	return ps
}

type commitsResponse []commitsResponseItem

type commitsResponseItem struct {
	SHA     string                    `json:"sha"`
	Commit  commitsResponseItemCommit `json:"commit"`
	HTMLURL string                    `json:"html_url"`
}

type commitsResponseItemCommit struct {
	Message string                    `json:"message"`
	Author  commitsResponseItemAuthor `json:"author"`
}

type commitsResponseItemAuthor struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

func (r commitsResponse) ToCommits() []app.Commit {
	cs := make([]app.Commit, 0, len(r))
	for _, i := range r {
		shortID := i.SHA
		if len(shortID) > shortIDLen {
			shortID = shortID[:shortIDLen]
		}

		cs = append(cs, app.Commit{
			ShortID:    shortID,
			Message:    i.Commit.Message,
			AuthorName: i.Commit.Author.Name,
			AuthorDate: i.Commit.Author.Date,
			URL:        i.HTMLURL,
		})
	}

	return cs
}

type repositoryResponse struct {
	Size int `json:"size"`
}
