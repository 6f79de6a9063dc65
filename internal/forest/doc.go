// Package forest implements CART regression trees and a bagged random
// forest of them.
//
// The forest follows the usual regression-forest conventions: bootstrap
// samples, squared-error splits at midpoints between distinct values, all
// features considered at every split unless MaxFeatures is set, and the
// mean of the trees as the prediction. Tree i is seeded with
// RandomState+i, so a fitted forest does not depend on how many workers
// built it.
package forest
