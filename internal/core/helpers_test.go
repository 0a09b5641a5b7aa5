package core_test

import "github.com/dkeye/livedocs/internal/domain"

func domainID(s string) domain.ClientID { return domain.ClientID(s) }
