package utils

// tmdbImageBaseURL is the provider's image CDN root. Stored records keep the
// relative path fragment; the served size variant is chosen here.
const tmdbImageBaseURL = "https://image.tmdb.org/t/p/"

// ImageURL builds an absolute image URL from a provider-relative path
// fragment and a size token (e.g. "w500", "original"). Empty paths stay
// empty so JSON omission works.
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + size + path
}
