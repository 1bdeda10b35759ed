package helpers

// Joiner collects the pieces of a large output and copies them into a single
// buffer at the end, so the output is allocated once regardless of how many
// pieces it was built from.
type Joiner struct {
	parts  []string
	length int
}

func (j *Joiner) AddString(data string) {
	if data != "" {
		j.parts = append(j.parts, data)
		j.length += len(data)
	}
}

func (j *Joiner) Length() int {
	return j.length
}

func (j *Joiner) Done() []byte {
	buffer := make([]byte, 0, j.length)
	for _, part := range j.parts {
		buffer = append(buffer, part...)
	}
	return buffer
}
