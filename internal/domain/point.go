package domain

// Point is the atomic unit stored in a vector collection: a chunk's text and
// metadata paired with its embedding vector. Every point in a collection
// carries a vector of the collection's configured dimensionality.
type Point struct {
	ID      string
	Vector  []float32
	Payload Passage
}
