// Package tier buckets loan amounts into the small/medium/large bands used to
// route notifications.
//
// Classification is pure configuration-driven arithmetic: amounts below the
// small threshold are small, amounts at or above the large threshold are
// large, everything between is medium. Each tier also carries the stable
// presentation hints (attachment color, human-readable amount range) that the
// notification layer renders, so the tier-to-appearance mapping lives in one
// place.
package tier
