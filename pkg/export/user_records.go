package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

// RecordSeparator splits the fields of a persisted user line.
const RecordSeparator = "|"

// UserRecordCodec reads and writes `id|username|password|roleCode` lines.
// Fields are never quoted, so usernames and passwords must not contain the
// separator or line breaks.
type UserRecordCodec struct{}

// NewUserRecordCodec builds a codec.
func NewUserRecordCodec() *UserRecordCodec {
	return &UserRecordCodec{}
}

// Encode writes one line per record.
func (c *UserRecordCodec) Encode(w io.Writer, records []models.UserRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if strings.ContainsAny(rec.Username+rec.Password, RecordSeparator+"\r\n") {
			return fmt.Errorf("user %d contains a reserved character", rec.ID)
		}
		line := strings.Join([]string{
			strconv.Itoa(rec.ID),
			rec.Username,
			rec.Password,
			strconv.Itoa(rec.RoleCode),
		}, RecordSeparator)
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write user record: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush user records: %w", err)
	}
	return nil
}

// Decode parses every well-formed line and reports how many lines were skipped.
func (c *UserRecordCodec) Decode(r io.Reader) ([]models.UserRecord, int, error) {
	records := make([]models.UserRecord, 0)
	skipped := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, ok := parseUserRecord(line)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read user records: %w", err)
	}
	return records, skipped, nil
}

func parseUserRecord(line string) (models.UserRecord, bool) {
	fields := strings.Split(line, RecordSeparator)
	if len(fields) != 4 || fields[1] == "" || fields[2] == "" {
		return models.UserRecord{}, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return models.UserRecord{}, false
	}
	role, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return models.UserRecord{}, false
	}
	return models.UserRecord{ID: id, Username: fields[1], Password: fields[2], RoleCode: role}, true
}
