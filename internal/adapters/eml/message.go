package eml

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
)

// Message is the scoreable content of a raw RFC 5322 message
type Message struct {
	From    string
	Subject string
	Body    string
}

// Text joins subject and body the way they are scored
func (m *Message) Text() string {
	if m.Subject == "" {
		return m.Body
	}
	return m.Subject + "\n\n" + m.Body
}

// Read parses a raw message and extracts its plain text content
func Read(r io.Reader) (*Message, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
	if err != nil {
		subject = msg.Header.Get("Subject")
	}

	body, err := extractText(msg.Header.Get("Content-Type"), msg.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}

	return &Message{
		From:    msg.Header.Get("From"),
		Subject: subject,
		Body:    body,
	}, nil
}

// extractText returns the text/plain content of a body, descending into nested multiparts
func extractText(contentType string, body io.Reader) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		b, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	mr := multipart.NewReader(body, params["boundary"])

	var textContent bytes.Buffer
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if textContent.Len() > 0 {
				return textContent.String(), nil
			}
			return "", err
		}

		partType := strings.ToLower(part.Header.Get("Content-Type"))
		switch {
		case partType == "" || strings.HasPrefix(partType, "text/plain"):
			b, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			textContent.Write(b)
			textContent.WriteString("\n")
		case strings.HasPrefix(partType, "multipart/"):
			nested, err := extractText(part.Header.Get("Content-Type"), part)
			if err != nil {
				continue
			}
			textContent.WriteString(nested)
		}
	}

	return textContent.String(), nil
}
