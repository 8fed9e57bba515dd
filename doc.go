// Package premium computes the daily premium of an exchange traded fund over
// its official net asset value (NAV).
//
// The fund's NAV is published in the valuation currency of its holdings and on
// its own (delayed and irregular) calendar, while the fund's units trade on an
// exchange in another currency. For every trading day the package:
//   - finds the latest NAV published on or before that day,
//   - restates that NAV in today's currency terms by the ratio of the forex
//     rate on the trading day to the forex rate on the NAV day,
//   - computes the premium of the market price over that adjusted value.
//
// The resulting series is summarized with descriptive statistics and encoded
// into a JSON Report consumed by a static web page.
//
// Fetching the three input series is done by the yahoo and mfapi packages,
// the `premium` command ties everything together.
package premium
