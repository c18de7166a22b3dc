// Package textfile loads labeled text datasets stored as JSON lines or CSV
// files, optionally gzip compressed.
//
// A dataset named imdb is a directory imdb/ holding one file per split:
//
//	imdb/train.jsonl    {"text": "...", "label": 1} per line
//	imdb/test.csv.gz    header "text,label"
package textfile

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/neurlang/textclassifier/datasets"
)

const trainSplit = "train"
const testSplit = "test"

var extensions = []string{".jsonl", ".jsonl.gz", ".csv", ".csv.gz"}

type row struct {
	Text  string `json:"text" csv:"text"`
	Label int    `json:"label" csv:"label"`
}

// SearchDirectories returns the directories Load looks into, in order: extra
// (when not empty), ./data, the user cache directory and /tmp.
func SearchDirectories(extra string) (dirs []string) {
	if extra != "" {
		dirs = append(dirs, extra)
	}
	dirs = append(dirs, "data")
	if cache, err := os.UserCacheDir(); err == nil {
		dirs = append(dirs, filepath.Join(cache, "textclassifier"))
	}
	return append(dirs, os.TempDir())
}

// Load reads the train and test splits of dataset name from the first
// directory in dirs that holds its training split.
func Load(name string, dirs []string) (datasets.Split, error) {
	for _, dir := range dirs {
		root := filepath.Join(dir, name)
		if _, ok := find(root, trainSplit); !ok {
			continue
		}
		train, err := LoadSplit(root, trainSplit)
		if err != nil {
			return datasets.Split{}, err
		}
		test, err := LoadSplit(root, testSplit)
		if err != nil {
			return datasets.Split{}, err
		}
		return datasets.Split{Train: train, Test: test}, nil
	}
	return datasets.Split{}, errors.Wrapf(datasets.ErrDataLoad, "dataset %q not found in %s", name, strings.Join(dirs, ", "))
}

// LoadSplit reads one split from the dataset directory root.
func LoadSplit(root, split string) (datasets.Samples, error) {
	path, ok := find(root, split)
	if !ok {
		return nil, errors.Wrapf(datasets.ErrDataLoad, "split %q missing in %s", split, root)
	}
	return ReadFile(path)
}

func find(root, split string) (string, bool) {
	for _, ext := range extensions {
		path := filepath.Join(root, split+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ReadFile decodes a .jsonl or .csv file; a trailing .gz is decompressed first.
func ReadFile(path string) (datasets.Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(datasets.ErrDataLoad, "open %s: %v", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	base := path
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(datasets.ErrDataLoad, "gzip %s: %v", path, err)
		}
		defer gz.Close()
		r = gz
		base = strings.TrimSuffix(path, ".gz")
	}

	var rows []row
	switch filepath.Ext(base) {
	case ".jsonl":
		rows, err = decodeJSONL(r)
	case ".csv":
		err = gocsv.Unmarshal(r, &rows)
	default:
		return nil, errors.Wrapf(datasets.ErrDataLoad, "unknown dataset file format %s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(datasets.ErrDataLoad, "decode %s: %v", path, err)
	}

	var o = make(datasets.Samples, len(rows))
	for i, r := range rows {
		if r.Label < 0 {
			return nil, errors.Wrapf(datasets.ErrDataLoad, "%s: row %d has negative label %d", path, i+1, r.Label)
		}
		o[i] = datasets.Sample{Text: r.Text, Label: r.Label}
	}
	return o, nil
}

func decodeJSONL(r io.Reader) (rows []row, err error) {
	dec := json.NewDecoder(r)
	for {
		var v row
		err = dec.Decode(&v)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, v)
	}
}
