// Package dataset reads the historical traffic record consumed by the frame
// allocator and the replay traffic source.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/qos-sched/qos-sched/sim"
)

// TimestampLayout is the layout of the Timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrMalformedRecord wraps every row-level parse failure.
var ErrMalformedRecord = errors.New("malformed traffic record")

// CSV column headers of the historical dataset.
const (
	ColTimestamp     = "Timestamp"
	ColSourceIP      = "Source IP"
	ColDestinationIP = "Destination IP"
	ColProtocol      = "Protocol"
	ColPacketSize    = "Packet Size (Bytes)"
	ColQoSClass      = "QoS Class"
)

// Columns lists the dataset header in file order.
var Columns = []string{ColTimestamp, ColSourceIP, ColDestinationIP, ColProtocol, ColPacketSize, ColQoSClass}

// Load reads the dataset at path. Errors opening the file wrap the os error
// (check with errors.Is(err, fs.ErrNotExist)); parse errors wrap ErrMalformedRecord.
func Load(path string) ([]sim.Packet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Parse(file)
}

// Parse reads a dataset from r. Columns are located by header name, so extra
// columns and any column order are accepted. The first bad row aborts parsing;
// rows are never skipped.
func Parse(r io.Reader) ([]sim.Packet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var packets []sim.Packet
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", row, err)
		}
		pkt, err := parsePacket(fields, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		packets = append(packets, pkt)
	}
	return packets, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, want := range Columns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("dataset header missing column %q", want)
		}
	}
	return cols, nil
}

func parsePacket(fields []string, cols map[string]int) (sim.Packet, error) {
	get := func(name string) string {
		if i := cols[name]; i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	ts, err := time.Parse(TimestampLayout, get(ColTimestamp))
	if err != nil {
		return sim.Packet{}, fmt.Errorf("%w: timestamp: %w", ErrMalformedRecord, err)
	}
	size, err := strconv.Atoi(get(ColPacketSize))
	if err != nil {
		return sim.Packet{}, fmt.Errorf("%w: packet size: %w", ErrMalformedRecord, err)
	}
	if size < 0 {
		return sim.Packet{}, fmt.Errorf("%w: packet size must be non-negative, got %d", ErrMalformedRecord, size)
	}
	class, err := sim.ParseQoSClass(get(ColQoSClass))
	if err != nil {
		return sim.Packet{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return sim.Packet{
		Timestamp:     ts,
		SourceIP:      get(ColSourceIP),
		DestinationIP: get(ColDestinationIP),
		Protocol:      get(ColProtocol),
		SizeBytes:     size,
		Class:         class,
	}, nil
}
