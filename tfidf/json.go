package tfidf

import "compress/lzw"
import "encoding/json"
import "io"
import "os"

import "github.com/pkg/errors"
import "go.uber.org/multierr"

type stateJSON struct {
	Width int       `json:"width"`
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`
}

// WriteCompressedToFile writes the state to a lzw file
func (s *State) WriteCompressedToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = s.WriteCompressed(file)
	return multierr.Append(err, file.Close())
}

// WriteCompressed writes the state as lzw compressed JSON. Weights survive the
// round trip bit for bit.
func (s *State) WriteCompressed(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	err := json.NewEncoder(lw).Encode(stateJSON{
		Width: s.width,
		Terms: s.terms,
		IDF:   s.idf,
	})
	if err != nil {
		lw.Close()
		return err
	}
	return lw.Close()
}

// ReadCompressedFromFile reads a state from a lzw file
func ReadCompressedFromFile(name string) (*State, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCompressed(file)
}

// ReadCompressed reads a state written by WriteCompressed.
func ReadCompressed(r io.Reader) (*State, error) {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	var v stateJSON
	if err := json.NewDecoder(lr).Decode(&v); err != nil {
		return nil, errors.Wrapf(ErrVectorization, "decode extractor state: %v", err)
	}
	return newState(v.Width, v.Terms, v.IDF)
}
