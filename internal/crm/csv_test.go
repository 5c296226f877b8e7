package crm

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	clients := []Client{
		{ID: 1, Name: "Amy", Email: "a@x.io", Phone: "555", Status: "Active", FollowUpDate: strPtr("2026-09-01"), Notes: "vip"},
		{ID: 2, Name: "Zed", Email: "z@x.io", Status: "Lead"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, clients))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per client")

	require.Equal(t,
		[]string{"id", "name", "email", "phone", "status", "follow_up_date", "notes"},
		records[0])
	require.Equal(t, []string{"1", "Amy", "a@x.io", "555", "Active", "2026-09-01", "vip"}, records[1])
	require.Equal(t, []string{"2", "Zed", "z@x.io", "", "Lead", "", ""}, records[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
