package model

type Book struct {
	ID            int
	Title         string
	AverageRating float64
	TotalRatings  int
	Authors       []BookAuthor // ordered by Order
}

// BookAuthor is one row of the author/book join seen from the book
type BookAuthor struct {
	AuthorID  int
	FirstName string
	LastName  string
	Photo     *string
	Order     int
}

func (a BookAuthor) FullName() string {
	return a.FirstName + " " + a.LastName
}

// AssignAuthors replaces the author list. Order follows the position in ids.
func (b *Book) AssignAuthors(ids []int) {
	b.Authors = make([]BookAuthor, 0, len(ids))
	for i, id := range ids {
		b.Authors = append(b.Authors, BookAuthor{AuthorID: id, Order: i})
	}
}
