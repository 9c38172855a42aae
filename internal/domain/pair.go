package domain

import (
	"fmt"
	"strings"
)

// quoteCodes is the priority-ordered list of known quote asset codes.
// ResolveAssetPair tries these in exactly this order, so a symbol whose
// suffix matches more than one code always resolves to the first match.
// Reordering this list changes resolution results for ambiguous suffixes.
var quoteCodes = []string{
	"AUD", "BIDR", "BKRW", "BNB", "BRL", "BTC", "BUSD", "BVND", "DAI", "DOGE", "DOT",
	"ETH", "EUR", "GBP", "IDRT", "NGN", "PAX", "PLN", "RON", "RUB", "TRX", "TRY", "TUSD",
	"UAH", "USDC", "USDP", "USDS", "USDT", "UST", "VAI", "XRP", "ZAR",
}

// ResolveAssetPair splits a concatenated trading-pair symbol such as
// "BTCUSDT" into its base and quote asset codes. The first quote code
// in quoteCodes that is a suffix of the symbol wins; the remaining
// prefix is the base. Returns ErrUnresolvedAssetPair when no known
// quote code matches.
func ResolveAssetPair(pair string) (base, quote string, err error) {
	for _, q := range quoteCodes {
		if strings.HasSuffix(pair, q) {
			return strings.TrimSuffix(pair, q), q, nil
		}
	}
	return "", "", fmt.Errorf("%s: %w", pair, ErrUnresolvedAssetPair)
}
