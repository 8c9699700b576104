package event

func isXMLWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isASCIINameStart(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_'
}

func isASCIINameContinuation(b byte) bool {
	return isASCIINameStart(b) || (b >= '0' && b <= '9') || b == '.' || b == '_' || b == ':' || b == '-'
}

// isNameByteFast accepts the ASCII name alphabet plus any non-ASCII
// byte, so a name that begins in the ASCII fast path may still carry
// unicode continuation bytes without forcing a restart of the scan.
func isNameByteFast(b byte) bool {
	return isASCIINameContinuation(b) || b >= 0x80
}

func isNameDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '>', '/', '=', '<':
		return true
	default:
		return false
	}
}

func isPermissiveNameByte(b byte) bool {
	return !isNameDelimiter(b)
}

func isPITargetByte(b byte) bool {
	return !isNameDelimiter(b) && b != '?'
}

func isAllWhitespace(b []byte) bool {
	for _, c := range b {
		if !isXMLWhitespace(c) {
			return false
		}
	}
	return true
}
