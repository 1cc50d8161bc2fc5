package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind classifies a failure so the web layer can pick a status code
// without inspecting error strings.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindUnauthorized
	KindForbidden
	KindNotFound
)

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type kindError struct {
	kind Kind
	msg  string
}

func (e *kindError) Error() string { return e.msg }

// Errorf builds an error tagged with a Kind.
func Errorf(kind Kind, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind an error was tagged with, KindInternal otherwise.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindInternal
}

type ErrorFormat struct {
	ObjectID primitive.ObjectID `json:"objectID,omitempty"`
	Message  string             `json:"message,omitempty"`
	Error    error              `json:"error,omitempty"`
	Function string             `json:"function,omitempty"`
	Level    logrus.Level       `json:"level,omitempty"`
	Package  string             `json:"package,omitempty"`
}

func (e ErrorFormat) String() string {
	marshal, err := json.Marshal(e)
	if err != nil {
		return ""
	}

	return string(marshal)
}

func (e ErrorFormat) ToError() error {
	e.Print()
	return errors.New(e.Message)
}

func (e ErrorFormat) Print() {
	if os.Getenv("DEBUG") == "true" {
		switch e.Level.String() {
		case "warning":
			logrus.Warn(e.String())
		case "error":
			logrus.Error(e.String())
		default:
			logrus.Info(e.String())
		}
	}
}
