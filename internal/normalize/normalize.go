package normalize

import (
	"sort"
	"strconv"

	"github.com/usestring/harcsv/internal/harerr"
	"github.com/usestring/harcsv/pkg/har"
)

// Validate checks that an entry carries the request, response and timings
// objects every row is built from. index is used in the error message.
func Validate(index int, e har.Entry) error {
	for _, key := range []string{"request", "response", "timings"} {
		if _, ok := e.Object(key); !ok {
			return harerr.MalformedEntry(index, key)
		}
	}
	return nil
}

// NormalizeFile projects an entry onto the single-source schema. Absent
// fields become empty cells; values are not transformed.
func NormalizeFile(index int, e har.Entry) (FileRow, error) {
	if err := Validate(index, e); err != nil {
		return FileRow{}, err
	}

	headers := e.Headers("response", "headers")

	return FileRow{
		PageRef:               e.Text("", "pageref"),
		StartedDateTime:       e.Text("", "startedDateTime"),
		RequestMethod:         e.Text("", "request", "method"),
		RequestURL:            e.Text("", "request", "url"),
		RequestHTTPVersion:    e.Text("", "request", "httpVersion"),
		RequestHeaderSize:     e.Text("", "request", "headersSize"),
		RequestBodySize:       e.Text("", "request", "bodySize"),
		ResponseStatus:        e.Text("", "response", "status"),
		ResponseContentSize:   e.Text("", "response", "content", "size"),
		ResponseContentType:   headers.Get("content-type"),
		ResponseContentLength: headers.Get("content-length"),
		ResponseCacheControl:  headers.Get("cache-control"),
		Timings:               timings(e),
		Time:                  e.Text("", "time"),
	}, nil
}

// NormalizeDir builds a directory-report row for an entry read from filename,
// deriving the response size and transfer rate.
func NormalizeDir(filename string, index int, e har.Entry) (DirRow, error) {
	if err := Validate(index, e); err != nil {
		return DirRow{}, harerr.WithPath(err, filename)
	}

	size := ResponseSize(e)
	totalTime, _ := e.Number("time")

	return DirRow{
		Tab:                filename,
		StartedDateTime:    e.Text("", "startedDateTime"),
		Connection:         e.Text("", "connection"),
		Priority:           e.Text("", "_priority"),
		RequestMethod:      e.Text("", "request", "method"),
		RequestURL:         e.Text("", "request", "url"),
		RequestHTTPVersion: e.Text("", "request", "httpVersion"),
		ResponseStatus:     e.Text("", "response", "status"),
		Error:              e.Text("", "response", "_error"),
		ResponseSize:       size,
		TotalTime:          e.Text("", "time"),
		ResponseRate:       ResponseRate(size, totalTime),
		Timings:            timings(e),
		BlockedQueueing:    e.Text("", "timings", "_blocked_queueing"),
		BlockedProxy:       e.Text("", "timings", "_blocked_proxy"),
	}, nil
}

// ResponseSize sums content size, the content-length header and the
// transfer size. When the sum is zero the transfer size alone is used.
// Absent or negative components count as zero, so the result is never
// negative.
func ResponseSize(e har.Entry) float64 {
	contentSize := nonNegative(e.Number("response", "content", "size"))
	contentLength := float64(ParseContentLength(e.Headers("response", "headers").Get("content-length")))
	transferSize := nonNegative(e.Number("response", "_transferSize"))

	size := contentSize + contentLength + transferSize
	if size == 0 {
		size = transferSize
	}
	return size
}

// ResponseRate is size divided by totalTime, or 0 when totalTime is not
// strictly positive. No unit conversion is applied.
func ResponseRate(size, totalTime float64) float64 {
	if totalTime > 0 {
		return size / totalTime
	}
	return 0
}

// ParseContentLength returns the header value as an integer when it consists
// only of ASCII digits, and 0 otherwise.
func ParseContentLength(v string) int64 {
	if v == "" {
		return 0
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return 0
		}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// SortByStarted orders rows by startedDateTime, keeping the relative order of
// rows with equal timestamps.
func SortByStarted(rows []DirRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].StartedDateTime < rows[j].StartedDateTime
	})
}

func timings(e har.Entry) Timings {
	return Timings{
		Blocked: e.Text("", "timings", "blocked"),
		DNS:     e.Text("", "timings", "dns"),
		SSL:     e.Text("", "timings", "ssl"),
		Connect: e.Text("", "timings", "connect"),
		Send:    e.Text("", "timings", "send"),
		Wait:    e.Text("", "timings", "wait"),
		Receive: e.Text("", "timings", "receive"),
	}
}

func nonNegative(v float64, ok bool) float64 {
	if !ok || v < 0 {
		return 0
	}
	return v
}
