// Package compare runs the constraint battery over an original and a
// cleaned snapshot of the dataset and derives per-constraint deltas:
// how many violations the cleaning pass fixed, which checks regressed,
// and the overall improvement rate.
package compare
