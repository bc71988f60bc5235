package models

import (
	"strconv"
	"strings"
)

// Movie is a catalog entry as returned by the metadata service. It is
// read-only for the rest of the application.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"originalTitle,omitempty"`
	OriginalLanguage string  `json:"originalLanguage,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	ReleaseDate      string  `json:"releaseDate,omitempty"`
	Year             int     `json:"year,omitempty"`
	BackdropPath     string  `json:"backdropPath,omitempty"`
	PosterPath       string  `json:"posterPath,omitempty"`
	Backdrop         *Image  `json:"backdrop,omitempty"`
	Poster           *Image  `json:"poster,omitempty"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"voteAverage"`
	VoteCount        int64   `json:"voteCount"`
}

// Image is a fully qualified artwork URL.
type Image struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// DisplayTitle falls back to the original title when the localized one is empty.
func (m Movie) DisplayTitle() string {
	if t := strings.TrimSpace(m.Title); t != "" {
		return t
	}
	if t := strings.TrimSpace(m.OriginalTitle); t != "" {
		return t
	}
	return "Untitled"
}

// MoviePage is one page of results from a list endpoint.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"totalPages,omitempty"`
	TotalResults int     `json:"totalResults,omitempty"`
}

// RatingLabel formats the vote average to one decimal, or "N/A" when unrated.
func (m Movie) RatingLabel() string {
	if m.VoteAverage <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(m.VoteAverage, 'f', 1, 64)
}

// YearLabel is the release year, or "N/A" when the date is unknown.
func (m Movie) YearLabel() string {
	if m.Year == 0 {
		return "N/A"
	}
	return strconv.Itoa(m.Year)
}
