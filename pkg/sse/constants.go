package sse

const (
	cr byte = '\r'
	lf byte = '\n'

	colon byte = ':'
	space byte = ' '

	nul byte = 0x00
)

// bom is the UTF-8 encoding of U+FEFF BYTE ORDER MARK. A single leading
// BOM is stripped from the very start of a stream, per spec.
var bom = []byte{0xEF, 0xBB, 0xBF}

// messageEventType is the default "event" field value when the server
// never sends one.
const messageEventType = "message"

// field names recognized by the event-stream wire format; anything else
// is FieldIgnored.
var (
	fieldNameEvent = []byte("event")
	fieldNameData  = []byte("data")
	fieldNameID    = []byte("id")
	fieldNameRetry = []byte("retry")
)

// defaultInitialBufferCapacity is the starting capacity of a stream's
// growing work buffer, sized for a handful of short SSE lines so the
// common case doesn't reallocate on the first chunk.
const defaultInitialBufferCapacity = 256
