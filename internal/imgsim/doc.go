// Package imgsim measures perceptual similarity between grayscale images.
//
// SSIM follows the conventions of scikit-image's structural_similarity with
// its default arguments: a 7x7 uniform window, K1=0.01, K2=0.03, an 8-bit
// data range, and sample covariance. The mean is taken over every window that
// fits entirely inside the image, which equals scikit-image's border crop.
// Window sums come from summed-area tables, so one comparison costs O(w*h)
// regardless of window size.
package imgsim
