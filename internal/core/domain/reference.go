package domain

// Reference is an external bibliographic record returned by a literature
// metadata provider. Only metadata is held, never full text.
type Reference struct {
	// ID is the stable identifier used in [REF:<id>] markers,
	// typically a DOI when one exists.
	ID string

	// Title is the work's title.
	Title string

	// Authors lists the authors in publication order.
	Authors []Author

	// Year is the publication year, 0 if unknown.
	Year int

	// DOI is the digital object identifier, empty if unknown.
	DOI string

	// URL is a resolvable link to the record, empty if unknown.
	URL string

	// Journal is the container title, empty if unknown.
	Journal string
}

// Author is a single author of a bibliographic record.
type Author struct {
	// Family is the family (last) name.
	Family string

	// Given is the given (first) name, possibly empty.
	Given string
}
