package domain

import "fmt"

// OperationKind определяет, какое чтение выполняется на бэкенде
type OperationKind int

const (
	OperationSummary OperationKind = iota
	OperationQueries
)

const (
	DefaultQueryLength = 50
	MinQueryLength     = 1
	MaxQueryLength     = 200
)

// Operation - одно чтение с бэкенда; Length имеет смысл только для OperationQueries
type Operation struct {
	Kind   OperationKind
	Length int
}

func SummaryOperation() Operation { return Operation{Kind: OperationSummary} }

// QueriesOperation создает чтение журнала запросов, длина зажимается в [1, 200]
func QueriesOperation(length int) Operation {
	return Operation{Kind: OperationQueries, Length: ClampQueryLength(length)}
}

func (o Operation) String() string {
	switch o.Kind {
	case OperationQueries:
		return fmt.Sprintf("queries(length=%d)", o.Length)
	default:
		return "summary"
	}
}

// ClampQueryLength зажимает длину журнала запросов в диапазон [MinQueryLength, MaxQueryLength]
func ClampQueryLength(length int) int {
	if length < MinQueryLength {
		return MinQueryLength
	}
	if length > MaxQueryLength {
		return MaxQueryLength
	}
	return length
}
