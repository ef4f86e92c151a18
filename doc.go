// Package cnnway classifies hand-drawn digits with fixed, hand-crafted
// convolution kernels instead of learned weights.
//
// A raw ink raster (28x28, values in [0,1]) is first registered: cropped to
// its ink, scaled so its longer side spans 20 cells, smoothed and shifted so
// its centre of mass sits on the canvas centre. Six 3x3 kernels (edge,
// diagonal, stroke and blob detectors) are then convolved over it, rectified
// and max-pooled. The pooled maps form a feature vector and the registered
// grid itself a pixel vector; both are compared by cosine similarity with
// the same vectors computed once for ten reference digit glyphs, and the
// fused scores are turned into probabilities with a softmax.
//
// Basic use:
//
//	c, err := cnnway.NewClassifier()
//	if err != nil {
//		return err
//	}
//	res, err := c.Predict(raw)
//	if err != nil {
//		return err
//	}
//	top, _ := res.Top()
//	fmt.Printf("%d (%.0f%%)\n", top.Digit, top.Probability*100)
//
// The lower-level entry points NormalizeAndExtract and Classify expose the
// two halves of the pipeline separately.
package cnnway
