package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qos-sched/qos-sched/sim"
)

const header = "Timestamp,Source IP,Destination IP,Protocol,Packet Size (Bytes),QoS Class\n"

func TestParse_ValidRows(t *testing.T) {
	// GIVEN a dataset with one row per class
	input := header +
		"2024-11-05 10:00:00,192.168.1.2,10.0.0.5,UDP,120,uRLLC\n" +
		"2024-11-05 10:00:01,192.168.1.3,10.0.0.6,TCP,1400,eMBB\n" +
		"2024-11-05 10:05:00, 192.168.1.4 ,10.0.0.7,UDP,60,mMTC\n"

	// WHEN parsed
	packets, err := Parse(strings.NewReader(input))

	// THEN every row is returned in file order with its class
	require.NoError(t, err)
	require.Len(t, packets, 3)
	assert.Equal(t, sim.Packet{
		Timestamp:     time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC),
		SourceIP:      "192.168.1.2",
		DestinationIP: "10.0.0.5",
		Protocol:      "UDP",
		SizeBytes:     120,
		Class:         sim.ClassA,
	}, packets[0])
	assert.Equal(t, sim.ClassB, packets[1].Class)
	assert.Equal(t, sim.ClassC, packets[2].Class)
	assert.Equal(t, "192.168.1.4", packets[2].SourceIP)
}

func TestParse_ColumnsLocatedByHeaderName(t *testing.T) {
	input := "\ufeffQoS Class,Packet Size (Bytes),Extra,Protocol,Destination IP,Source IP,Timestamp\n" +
		"eMBB,900,x,TCP,10.0.0.1,192.168.0.1,2024-11-05 11:00:00\n"

	packets, err := Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Equal(t, sim.ClassB, packets[0].Class)
	assert.Equal(t, 900, packets[0].SizeBytes)
	assert.Equal(t, "192.168.0.1", packets[0].SourceIP)
}

func TestParse_MalformedRows_WrapErrMalformedRecord(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad timestamp", "05/11/2024 10:00,1.1.1.1,2.2.2.2,UDP,100,uRLLC", "timestamp"},
		{"bad size", "2024-11-05 10:00:00,1.1.1.1,2.2.2.2,UDP,big,uRLLC", "packet size"},
		{"negative size", "2024-11-05 10:00:00,1.1.1.1,2.2.2.2,UDP,-4,uRLLC", "non-negative"},
		{"unknown class", "2024-11-05 10:00:00,1.1.1.1,2.2.2.2,UDP,100,video", "unknown QoS class"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := header + "2024-11-05 09:59:59,1.1.1.1,2.2.2.2,UDP,100,mMTC\n" + tt.row + "\n"

			_, err := Parse(strings.NewReader(input))

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord), "got %v", err)
			assert.Contains(t, err.Error(), "row 2")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_UnknownClass_AlsoMatchesErrUnknownClass(t *testing.T) {
	_, err := Parse(strings.NewReader(header + "2024-11-05 10:00:00,1.1.1.1,2.2.2.2,UDP,100,LTE\n"))
	assert.True(t, errors.Is(err, sim.ErrUnknownClass))
}

func TestParse_MissingColumn_Fails(t *testing.T) {
	_, err := Parse(strings.NewReader("Timestamp,Source IP,Destination IP,Protocol,QoS Class\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ColPacketSize)
}

func TestParse_EmptyInput_NoPackets(t *testing.T) {
	packets, err := Parse(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, packets)

	packets, err = Parse(strings.NewReader(header))
	assert.NoError(t, err)
	assert.Empty(t, packets)
}

func TestLoad_MissingFile_IsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traffic.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"2024-11-05 10:00:00,1.1.1.1,2.2.2.2,TCP,64,mMTC\n"), 0o644))

	packets, err := Load(path)

	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Equal(t, "TCP", packets[0].Protocol)
}
