// Package normalize maps raw HAR entries onto the fixed report schemas.
package normalize

import "github.com/usestring/harcsv/pkg/har"

// FileColumns is the header of a single-source report.
var FileColumns = []string{
	"pageRef", "startedDateTime", "requestMethod", "requestUrl",
	"requestHttpVersion", "requestHeaderSize", "requestBodySize",
	"responseStatus", "responseContentSize", "responseContentType",
	"responseContentLength", "responseCacheControl", "blocked",
	"dns", "ssl", "connect", "send", "wait", "receive", "time",
}

// DirColumns is the header of a directory report.
var DirColumns = []string{
	"tab", "startedDateTime", "connection", "priority", "requestMethod", "requestUrl",
	"requestHttpVersion", "responseStatus", "error", "responseSize",
	"totalTime", "responseRate (kb/s)", "blocked",
	"dns", "ssl", "connect", "send", "wait", "receive", "blocked_queueing",
	"blocked_proxy",
}

// Timings holds the phase durations shared by both schemas, as written in the capture.
type Timings struct {
	Blocked string
	DNS     string
	SSL     string
	Connect string
	Send    string
	Wait    string
	Receive string
}

// FileRow is one row of a single-source report.
type FileRow struct {
	PageRef               string
	StartedDateTime       string
	RequestMethod         string
	RequestURL            string
	RequestHTTPVersion    string
	RequestHeaderSize     string
	RequestBodySize       string
	ResponseStatus        string
	ResponseContentSize   string
	ResponseContentType   string
	ResponseContentLength string
	ResponseCacheControl  string
	Timings               Timings
	Time                  string
}

// Values returns the row's cells in FileColumns order.
func (r FileRow) Values() []string {
	return []string{
		r.PageRef,
		r.StartedDateTime,
		r.RequestMethod,
		r.RequestURL,
		r.RequestHTTPVersion,
		r.RequestHeaderSize,
		r.RequestBodySize,
		r.ResponseStatus,
		r.ResponseContentSize,
		r.ResponseContentType,
		r.ResponseContentLength,
		r.ResponseCacheControl,
		r.Timings.Blocked,
		r.Timings.DNS,
		r.Timings.SSL,
		r.Timings.Connect,
		r.Timings.Send,
		r.Timings.Wait,
		r.Timings.Receive,
		r.Time,
	}
}

// DirRow is one row of a directory report.
type DirRow struct {
	Tab                string
	StartedDateTime    string
	Connection         string
	Priority           string
	RequestMethod      string
	RequestURL         string
	RequestHTTPVersion string
	ResponseStatus     string
	Error              string
	ResponseSize       float64
	TotalTime          string
	ResponseRate       float64
	Timings            Timings
	BlockedQueueing    string
	BlockedProxy       string
}

// Values returns the row's cells in DirColumns order.
func (r DirRow) Values() []string {
	return []string{
		r.Tab,
		r.StartedDateTime,
		r.Connection,
		r.Priority,
		r.RequestMethod,
		r.RequestURL,
		r.RequestHTTPVersion,
		r.ResponseStatus,
		r.Error,
		har.FormatFloat(r.ResponseSize),
		r.TotalTime,
		har.FormatFloat(r.ResponseRate),
		r.Timings.Blocked,
		r.Timings.DNS,
		r.Timings.SSL,
		r.Timings.Connect,
		r.Timings.Send,
		r.Timings.Wait,
		r.Timings.Receive,
		r.BlockedQueueing,
		r.BlockedProxy,
	}
}
