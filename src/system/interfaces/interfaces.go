package interfaces

// LoggerInterface is the seam between the archivist and whatever
// log sink the embedding application wants to use. The stdlib
// *log.Logger satisfies it out of the box.
type LoggerInterface interface {
	Println(v ...interface{})
}
