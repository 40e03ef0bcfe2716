package enums

import "fmt"

// UseCase marks whether a movement serves a sale or an internal purpose
// such as lab samples and write-offs.
type UseCase string

const (
	UseCaseSales    UseCase = "sales"
	UseCaseInternal UseCase = "internal"
)

var validUseCases = []UseCase{UseCaseSales, UseCaseInternal}

func (u UseCase) String() string {
	return string(u)
}

func (u UseCase) IsValid() bool {
	for _, v := range validUseCases {
		if u == v {
			return true
		}
	}
	return false
}

func ParseUseCase(s string) (UseCase, error) {
	u := UseCase(s)
	if !u.IsValid() {
		return "", fmt.Errorf("invalid use case %q", s)
	}
	return u, nil
}
