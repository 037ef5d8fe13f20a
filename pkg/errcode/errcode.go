// Package errcode decodes the packed error codes reported by update clients.
//
// A reported code is a 32-bit value. Bits 0..27 carry the primary cause, an
// update-engine action exit code. Bits 28..31 are independent flags describing
// the conditions the failure happened under. The layout is fixed by clients
// already deployed in the field and must not change.
package errcode

import (
	"fmt"
	"strings"
)

const (
	// PrimaryMask selects the primary cause identifier.
	PrimaryMask uint32 = 0x0FFFFFFF

	// FlagTestOmahaURL is set when the client talked to a non-production update server.
	FlagTestOmahaURL uint32 = 1 << 28

	// FlagTestImage is set when the client runs a test image.
	FlagTestImage uint32 = 1 << 29

	// FlagResumed is set when the failed payload download was resumed.
	FlagResumed uint32 = 1 << 30

	// FlagDevMode is set when the client runs in developer mode.
	FlagDevMode uint32 = 1 << 31

	// UnknownErrorMessage is the primary message for identifiers outside the table.
	UnknownErrorMessage = "Unknown error"
)

// primaryMessages maps action exit codes to their description.
var primaryMessages = map[uint32]string{
	0:  "Success",
	1:  "Generic error",
	2:  "Omaha request error",
	3:  "Omaha response handler error",
	4:  "Filesystem copier error",
	5:  "Post-install runner error",
	6:  "Payload type mismatch",
	7:  "Install device could not be opened",
	8:  "Kernel device could not be opened",
	9:  "Download transfer error",
	10: "Payload hash mismatch",
	11: "Payload size mismatch",
	12: "Download payload verification error",
	13: "Download new partition info error",
	14: "Download write error",
	15: "New root filesystem verification error",
	16: "New kernel verification error",
	17: "Signed delta payload expected",
	18: "Download payload public key verification error",
	19: "Post-install booted from firmware B",
	20: "Download state initialization error",
	21: "Invalid metadata magic string",
	22: "Signature missing in manifest",
	23: "Manifest parse error",
	24: "Metadata signature error",
	25: "Metadata signature verification error",
	26: "Metadata signature mismatch",
	27: "Operation hash verification error",
	28: "Operation execution error",
	29: "Operation hash mismatch",
	30: "Omaha request returned an empty response",
	31: "Omaha request XML parse error",
	32: "Invalid metadata size",
	33: "Invalid metadata signature",
	34: "Omaha response invalid",
	35: "Update ignored per policy",
	36: "Update deferred per policy",
	37: "Error in Omaha HTTP response",
	38: "Operation hash missing",
	39: "Metadata signature missing",
	40: "Update deferred for backoff",
	41: "Post-install powerwash error",
	42: "Update canceled by channel change",
	43: "Post-install firmware RO not updatable",
	44: "Unsupported major payload version",
	45: "Unsupported minor payload version",
	46: "Omaha request XML has entity declaration",
	47: "Filesystem verifier error",
	48: "Update canceled by user",
}

// flagPhrase is one entry of the bit to phrase table.
type flagPhrase struct {
	bit    uint32
	phrase string
}

// flagPhrases is ordered by ascending bit position.
var flagPhrases = []flagPhrase{
	{FlagTestOmahaURL, "using a test update server"},
	{FlagTestImage, "running a test image"},
	{FlagResumed, "resumed download"},
	{FlagDevMode, "developer mode"},
}

// Decoded is the human-readable form of a packed error code.
//
// Fields:
//   - Primary: Description of the primary cause; empty when no code was reported
//   - Flags: Phrases of the set flag bits, in ascending bit order; never nil
type Decoded struct {
	Primary string   `json:"primary" xml:"primary"`
	Flags   []string `json:"flags" xml:"flags>flag"`
}

// String returns Format(d.Primary, d.Flags).
func (d Decoded) String() string {
	return Format(d.Primary, d.Flags)
}

// Decode splits a packed error code into its primary message and flag phrases.
//
// The value is interpreted as an unsigned 32-bit word, so a code whose sign bit
// was set by a signed transport still reports the developer mode flag.
//
// Parameters:
//   - code: The reported error code; nil when the instance reported none
//
// Returns:
//   - Decoded: ("", []) for nil; otherwise the table message (or UnknownErrorMessage
//     with the identifier) and the phrases of every known set flag
func Decode(code *int) Decoded {
	if code == nil {
		return Decoded{Primary: "", Flags: []string{}}
	}

	raw := uint32(*code)
	primary := raw & PrimaryMask

	message, ok := primaryMessages[primary]
	if !ok {
		message = fmt.Sprintf("%s (%d)", UnknownErrorMessage, primary)
	}

	flags := make([]string, 0, len(flagPhrases))
	for _, fp := range flagPhrases {
		if raw&fp.bit != 0 {
			flags = append(flags, fp.phrase)
		}
	}

	return Decoded{Primary: message, Flags: flags}
}

// Format joins a primary message with its flag phrases.
//
// The output is stable: "primary (flag1, flag2)". Without flags it is the
// primary message alone; without a primary message it is the joined flags.
//
// Parameters:
//   - primary: The primary message
//   - flags: Flag phrases, already ordered
//
// Returns:
//   - string: The combined text; empty when both inputs are empty
func Format(primary string, flags []string) string {
	joined := strings.Join(flags, ", ")

	switch {
	case primary == "":
		return joined
	case joined == "":
		return primary
	default:
		return primary + " (" + joined + ")"
	}
}

// IsKnown reports whether the primary identifier of code is in the table.
//
// Parameters:
//   - code: The packed error code
//
// Returns:
//   - bool: true if bits 0..27 name a known cause
func IsKnown(code int) bool {
	_, ok := primaryMessages[uint32(code)&PrimaryMask]
	return ok
}
