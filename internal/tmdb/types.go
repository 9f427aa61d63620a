package tmdb

// listResponse is the envelope of TMDB list and discover endpoints
type listResponse struct {
	Page         int      `json:"page"`
	Results      []result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// result is a movie or TV entry. Movies carry title/release_date,
// series carry name/first_air_date.
type result struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	VoteAverage  float64 `json:"vote_average"`
	MediaType    string  `json:"media_type"`
	GenreIDs     []int   `json:"genre_ids"`
}

type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
