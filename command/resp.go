package command

import (
	"io"
	"strconv"
)

const crlf = "\r\n"

// AppendRESP appends the RESP array encoding of the command to buf:
// *<n>\r\n followed by one bulk string per token.
func (c Command) AppendRESP(buf []byte) []byte {
	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(len(c)), 10)
	buf = append(buf, crlf...)
	for _, token := range c {
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(token)), 10)
		buf = append(buf, crlf...)
		buf = append(buf, token...)
		buf = append(buf, crlf...)
	}
	return buf
}

// WriteRESP writes the RESP encoding of the command to w.
func (c Command) WriteRESP(w io.Writer) (int, error) {
	return w.Write(c.AppendRESP(nil))
}
