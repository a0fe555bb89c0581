package tokencache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const (
	credentialFormatVersionV1 = 1
	accountFormatVersionV1    = 1
)

var errStringTooLong = errors.New("field exceeds encodable length")

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > 65535 {
		return errStringTooLong
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

func readString(reader *bytes.Reader) (string, error) {
	var length uint16
	if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
		return "", err
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}

// EncodeCredential serializes a credential record with a leading format
// version byte.
func EncodeCredential(c *Credential) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(credentialFormatVersionV1)

	for _, field := range []string{
		c.Account.HomeID,
		c.Account.Username,
		c.Account.Policy,
		c.Account.Environment,
		c.Authority,
		c.Policy,
		c.AccessToken,
		c.IDToken,
		c.RefreshToken,
	} {
		if err := writeString(&buf, field); err != nil {
			return nil, err
		}
	}

	if err := binary.Write(&buf, binary.BigEndian, c.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodeCredential deserializes a credential record produced by
// [EncodeCredential].
func DecodeCredential(data []byte) (*Credential, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != credentialFormatVersionV1 {
		return nil, errors.New("invalid credential record version")
	}

	c := &Credential{}
	fields := []*string{
		&c.Account.HomeID,
		&c.Account.Username,
		&c.Account.Policy,
		&c.Account.Environment,
		&c.Authority,
		&c.Policy,
		&c.AccessToken,
		&c.IDToken,
		&c.RefreshToken,
	}
	for _, field := range fields {
		value, err := readString(reader)
		if err != nil {
			return nil, err
		}
		*field = value
	}

	if err := binary.Read(reader, binary.BigEndian, &c.ExpiresAt); err != nil {
		return nil, err
	}

	return c, nil
}

func encodeAccount(a Account) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(accountFormatVersionV1)

	for _, field := range []string{a.HomeID, a.Username, a.Policy, a.Environment} {
		if err := writeString(&buf, field); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func decodeAccount(data []byte) (Account, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return Account{}, err
	}
	if version != accountFormatVersionV1 {
		return Account{}, errors.New("invalid account record version")
	}

	var a Account
	fields := []*string{&a.HomeID, &a.Username, &a.Policy, &a.Environment}
	for _, field := range fields {
		value, err := readString(reader)
		if err != nil {
			return Account{}, err
		}
		*field = value
	}

	return a, nil
}
