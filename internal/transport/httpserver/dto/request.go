// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

// SearchNewsRequest represents the query parameters for searching news.
type SearchNewsRequest struct {
	Query string `query:"q" validate:"required,notblank,max=200"`
}

// DomainRequest identifies a cached domain in the URL path.
type DomainRequest struct {
	Domain string `params:"domain" validate:"required,oneof=news events"`
}
