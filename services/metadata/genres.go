package metadata

// TMDB genre codes. Search results only carry numeric genre ids; this static
// table resolves them to display names. Covers both the movie and the TV
// genre lists.
var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
	10759: "Action & Adventure",
	10762: "Kids",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
}

// genreOrder fixes the enumeration order for filter options.
var genreOrder = []int{
	28, 12, 16, 35, 80, 99, 18, 10751, 14, 36, 27, 10402, 9648, 10749,
	878, 10770, 53, 10752, 37, 10759, 10762, 10763, 10764, 10765, 10766,
	10767, 10768,
}

// GenreNames returns every known genre name in a stable order.
func GenreNames() []string {
	names := make([]string, 0, len(genreOrder))
	for _, id := range genreOrder {
		names = append(names, genreNames[id])
	}
	return names
}

// resolveGenres maps provider genre ids to names, silently dropping ids the
// table does not know.
func resolveGenres(ids []int) []string {
	names := []string{}
	for _, id := range ids {
		if name, ok := genreNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
