package dataset

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/signalnine/toolrl/internal/record"
)

const (
	ColumnProblem  = "problem"
	ColumnSolution = "solution"

	parallelism = 4
)

// SourceRow is the subset of an input example the converter consumes.
type SourceRow struct {
	Problem  string `parquet:"name=problem, type=BYTE_ARRAY, convertedtype=UTF8"`
	Solution string `parquet:"name=solution, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ReadSourceRows reads the problem and solution columns of every file in
// order. Other columns are not read.
func ReadSourceRows(paths []string) ([]SourceRow, error) {
	var rows []SourceRow
	for _, p := range paths {
		fileRows, err := readSourceFile(p)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrLoad, p, err)
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

func readSourceFile(path string) ([]SourceRow, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetColumnReader(fr, parallelism)
	if err != nil {
		return nil, fmt.Errorf("reading footer: %w", err)
	}
	defer pr.ReadStop()

	n := pr.GetNumRows()
	root := pr.SchemaHandler.GetRootExName()
	problems, err := readStringColumn(pr, root, ColumnProblem, n)
	if err != nil {
		return nil, err
	}
	solutions, err := readStringColumn(pr, root, ColumnSolution, n)
	if err != nil {
		return nil, err
	}

	rows := make([]SourceRow, n)
	for i := range rows {
		rows[i] = SourceRow{Problem: problems[i], Solution: solutions[i]}
	}
	return rows, nil
}

func readStringColumn(pr *reader.ParquetReader, root, name string, n int64) ([]string, error) {
	if n == 0 {
		return nil, nil
	}
	values, _, _, err := pr.ReadColumnByPath(common.ReformPathStr(root+"."+name), n)
	if err != nil {
		return nil, fmt.Errorf("reading column %q: %w", name, err)
	}
	if int64(len(values)) != n {
		return nil, fmt.Errorf("column %q: got %d values for %d rows", name, len(values), n)
	}
	out := make([]string, n)
	for i, v := range values {
		switch s := v.(type) {
		case string:
			out[i] = s
		case []byte:
			out[i] = string(s)
		case nil:
			return nil, fmt.Errorf("column %q: null value at row %d", name, i)
		default:
			return nil, fmt.Errorf("column %q: unexpected %T at row %d", name, v, i)
		}
	}
	return out, nil
}

// WriteSourceRows writes rows in the input layout with only the problem and
// solution columns.
func WriteSourceRows(path string, rows []SourceRow) error {
	return writeParquet(path, new(SourceRow), func(pw *writer.ParquetWriter) error {
		for i := range rows {
			if err := pw.Write(rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteRecords writes converted records as a SNAPPY-compressed parquet file.
func WriteRecords(path string, records []record.TrainingRecord) error {
	return writeParquet(path, new(record.TrainingRecord), func(pw *writer.ParquetWriter) error {
		for i := range records {
			if err := pw.Write(records[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeParquet(path string, schema interface{}, write func(*writer.ParquetWriter) error) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	pw, err := writer.NewParquetWriter(fw, schema, parallelism)
	if err != nil {
		fw.Close()
		return fmt.Errorf("creating parquet writer for %s: %w", path, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	if err := write(pw); err != nil {
		fw.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("finishing %s: %w", path, err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// ReadRecords reads back a file written by WriteRecords.
func ReadRecords(path string) ([]record.TrainingRecord, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(record.TrainingRecord), parallelism)
	if err != nil {
		return nil, fmt.Errorf("reading footer of %s: %w", path, err)
	}
	defer pr.ReadStop()

	records := make([]record.TrainingRecord, pr.GetNumRows())
	if len(records) == 0 {
		return records, nil
	}
	if err := pr.Read(&records); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}
