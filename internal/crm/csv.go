package crm

import (
	"encoding/csv"
	"io"
	"strconv"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{"id", "name", "email", "phone", "status", "follow_up_date", "notes"}

// WriteCSV writes the clients as CSV with the canonical header row. A nil
// follow-up date serializes as an empty cell.
func WriteCSV(w io.Writer, clients []Client) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range clients {
		c := &clients[i]
		followUp := ""
		if c.FollowUpDate != nil {
			followUp = *c.FollowUpDate
		}
		record := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Email,
			c.Phone,
			c.Status,
			followUp,
			c.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
