// Package snapshot persists rendered HTML frames.
//
// Two stores are provided: FileStore writes under a local directory and
// S3Store writes to a bucket through aws-sdk-go-v2. Both are keyed by a
// slash-separated name such as "reorder/0003".
//
//	store, err := snapshot.NewFileStore("snapshots")
//	if err != nil {
//	    return err
//	}
//	err = store.Put(ctx, snapshot.FromFrame("reorder", frame))
package snapshot
