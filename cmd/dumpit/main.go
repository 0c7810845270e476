package main

import (
	"encoding/binary"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dkalas/aphelion/pkg/datasource/historical"
)

// Converts daily bar CSVs of the form
// date,open,high,low,close,volume,dividend,split into the packed binary
// layout the mmap reader consumes. Rows must already be in ascending date
// order.
func dumpIt(csvPath string, binFile *os.File) error {
	csvFile, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer func(csvFile *os.File) {
		_ = csvFile.Close()
	}(csvFile)

	reader := csv.NewReader(csvFile)

	// Skip header
	_, err = reader.Read()
	if err != nil {
		log.Fatal(err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		ts, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			log.Fatal(err)
		}

		open, _ := strconv.ParseFloat(record[1], 64)
		high, _ := strconv.ParseFloat(record[2], 64)
		low, _ := strconv.ParseFloat(record[3], 64)
		closePx, _ := strconv.ParseFloat(record[4], 64)
		volume, _ := strconv.ParseFloat(record[5], 64)

		dividend := 0.0
		split := 1.0
		if len(record) > 6 {
			dividend, _ = strconv.ParseFloat(record[6], 64)
		}
		if len(record) > 7 {
			if s, err := strconv.ParseFloat(record[7], 64); err == nil && s != 0 {
				split = s
			}
		}

		d := historical.BinaryBar{
			TimeStamp: ts.UnixNano(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePx,
			Volume:    volume,
			Dividend:  dividend,
			Split:     split,
		}
		if err := binary.Write(binFile, binary.LittleEndian, d); err != nil {
			log.Fatal(err)
		}
	}

	return nil
}

func dumpAll(symbol string, from, to int) error {
	binFile, err := os.Create(symbol + ".bin")
	if err != nil {
		return err
	}
	defer func(binFile *os.File) {
		_ = binFile.Close()
	}(binFile)

	for i := from; i <= to; i++ {
		s := symbol + "_" + strconv.Itoa(i) + ".csv"
		if err := dumpIt(s, binFile); err != nil {
			return os.Remove(symbol + ".bin")
		}
		slog.Info("dump finished", "symbol", symbol, "file", s)
	}

	return nil
}

func main() {
	symbol := flag.String("symbol", "", "symbol")
	from := flag.Int("from", 2015, "first year")
	to := flag.Int("to", 2025, "last year")
	flag.Parse()

	if *symbol == "" {
		slog.Error("symbol is required")
	} else if err := dumpAll(*symbol, *from, *to); err != nil {
		slog.Error("failed to dump", "error", err)
	} else {
		slog.Info("done")
	}
}
