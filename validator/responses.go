package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/oassplit/document"
)

// standardStatusCodes are the codes RFC 9110 and its companions define.
// Strict mode warns about anything else.
var standardStatusCodes = map[int]bool{
	100: true, 101: true, 102: true, 103: true,
	200: true, 201: true, 202: true, 203: true, 204: true, 205: true, 206: true, 207: true, 208: true, 226: true,
	300: true, 301: true, 302: true, 303: true, 304: true, 305: true, 307: true, 308: true,
	400: true, 401: true, 402: true, 403: true, 404: true, 405: true, 406: true, 407: true, 408: true,
	409: true, 410: true, 411: true, 412: true, 413: true, 414: true, 415: true, 416: true, 417: true,
	418: true, 421: true, 422: true, 423: true, 424: true, 425: true, 426: true, 428: true, 429: true,
	431: true, 451: true,
	500: true, 501: true, 502: true, 503: true, 504: true, 505: true, 506: true, 507: true, 508: true,
	510: true, 511: true,
}

// validStatusCode accepts "default", extensions, wildcard ranges such as
// "2XX" and numeric codes from 100 to 599.
func validStatusCode(code string) bool {
	if code == "default" || strings.HasPrefix(code, "x-") {
		return true
	}
	if len(code) != 3 {
		return false
	}
	if code[1] == 'X' && code[2] == 'X' {
		return code[0] >= '1' && code[0] <= '5'
	}
	n, err := strconv.Atoi(code)
	return err == nil && n >= 100 && n <= 599
}

func standardStatusCode(code string) bool {
	n, err := strconv.Atoi(code)
	return err != nil || standardStatusCodes[n]
}

// checkResponses requires a non-empty responses object with valid codes.
func (c *check) checkResponses(op *document.Operation, opPath string) {
	v, ok := op.Body.Get("responses")
	responses, isObject := v.AsObject()
	if !ok || !isObject || responses.Len() == 0 {
		c.addError(opPath+".responses", "operation must define at least one response",
			withField("responses"), withOperation(op), c.withSpecRef("responses-object"))
		return
	}
	hasSuccess := false
	for _, code := range responses.Keys() {
		path := opPath + ".responses." + code
		switch {
		case !validStatusCode(code):
			c.addError(path, fmt.Sprintf("invalid HTTP status code %q", code),
				withOperation(op), c.withSpecRef("responses-object"))
		case c.v.StrictMode && !standardStatusCode(code):
			c.addWarning(path, fmt.Sprintf("non-standard HTTP status code %q", code),
				withOperation(op), c.withSpecRef("responses-object"))
		}
		if strings.HasPrefix(code, "2") || code == "default" {
			hasSuccess = true
		}
	}
	if c.v.StrictMode && !hasSuccess {
		c.addWarning(opPath+".responses", "operation should define a successful response (2XX or default)",
			withOperation(op), c.withSpecRef("responses-object"))
	}
}

// checkOperationID reports operationIds used more than once. seen maps an
// operationId to the path where it first appeared.
func (c *check) checkOperationID(op *document.Operation, opPath string, seen map[string]string) {
	v, ok := op.Body.Get("operationId")
	if !ok {
		return
	}
	id, _ := v.AsString()
	if id == "" {
		return
	}
	if first, dup := seen[id]; dup {
		c.addError(opPath, fmt.Sprintf("duplicate operationId %q (first seen at %s)", id, first),
			withField("operationId"), withOperation(op), c.withSpecRef("operation-object"))
		return
	}
	seen[id] = opPath
}
