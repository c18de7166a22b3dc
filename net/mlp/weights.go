package mlp

import "bufio"
import "encoding/binary"
import "io"
import "os"

import "github.com/pkg/errors"
import "go.uber.org/multierr"
import "gonum.org/v1/gonum/mat"

// header of the parameter file, followed by the three dimensions as
// little-endian int64 and the gonum binary encoding of W1, b1, W2, b2
const magic = "MLPW\x00\x01"

// WriteWeightsToFile writes the parameters to a file
func (c *Classifier) WriteWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = c.WriteWeights(file)
	return multierr.Append(err, file.Close())
}

// WriteWeights writes the parameters to a writer
func (c *Classifier) WriteWeights(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return err
	}
	dims := [3]int64{int64(c.input), int64(c.hidden), int64(c.output)}
	if err := binary.Write(bw, binary.LittleEndian, dims); err != nil {
		return err
	}
	if _, err := c.w1.MarshalBinaryTo(bw); err != nil {
		return err
	}
	if _, err := c.b1.MarshalBinaryTo(bw); err != nil {
		return err
	}
	if _, err := c.w2.MarshalBinaryTo(bw); err != nil {
		return err
	}
	if _, err := c.b2.MarshalBinaryTo(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadWeightsFromFile reads a classifier from a file
func ReadWeightsFromFile(name string) (*Classifier, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadWeights(file)
}

// ReadWeights reads a classifier written by WriteWeights. A stream whose
// matrices disagree with its declared dimensions is a shape error.
func ReadWeights(r io.Reader) (*Classifier, error) {
	br := bufio.NewReader(r)
	var head = make([]byte, len(magic))
	if _, err := io.ReadFull(br, head); err != nil {
		return nil, errors.Wrap(err, "read weights header")
	}
	if string(head) != magic {
		return nil, errors.Wrap(ErrShape, "not a classifier weights file")
	}
	var dims [3]int64
	if err := binary.Read(br, binary.LittleEndian, &dims); err != nil {
		return nil, errors.Wrap(err, "read weights dimensions")
	}

	var c = &Classifier{
		input:  int(dims[0]),
		hidden: int(dims[1]),
		output: int(dims[2]),
		w1:     new(mat.Dense),
		b1:     new(mat.VecDense),
		w2:     new(mat.Dense),
		b2:     new(mat.VecDense),
	}
	if c.input <= 0 || c.hidden <= 0 || c.output <= 0 {
		return nil, errors.Wrapf(ErrShape, "stored dimensions %v", dims)
	}
	if _, err := c.w1.UnmarshalBinaryFrom(br); err != nil {
		return nil, errors.Wrap(err, "read W1")
	}
	if _, err := c.b1.UnmarshalBinaryFrom(br); err != nil {
		return nil, errors.Wrap(err, "read b1")
	}
	if _, err := c.w2.UnmarshalBinaryFrom(br); err != nil {
		return nil, errors.Wrap(err, "read W2")
	}
	if _, err := c.b2.UnmarshalBinaryFrom(br); err != nil {
		return nil, errors.Wrap(err, "read b2")
	}

	if rows, cols := c.w1.Dims(); rows != c.input || cols != c.hidden {
		return nil, errors.Wrapf(ErrShape, "W1 is %d×%d, want %d×%d", rows, cols, c.input, c.hidden)
	}
	if c.b1.Len() != c.hidden {
		return nil, errors.Wrapf(ErrShape, "b1 has %d entries, want %d", c.b1.Len(), c.hidden)
	}
	if rows, cols := c.w2.Dims(); rows != c.hidden || cols != c.output {
		return nil, errors.Wrapf(ErrShape, "W2 is %d×%d, want %d×%d", rows, cols, c.hidden, c.output)
	}
	if c.b2.Len() != c.output {
		return nil, errors.Wrapf(ErrShape, "b2 has %d entries, want %d", c.b2.Len(), c.output)
	}
	return c, nil
}
