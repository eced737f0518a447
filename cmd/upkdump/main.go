// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"github.com/upkio/upk"
)

var (
	all        bool
	wantNames  bool
	wantImport bool
	wantExport bool
	wantThumbs bool
	wantSig    bool
)

var (
	wg   sync.WaitGroup
	jobs = make(chan string)
)

func prettyPrint(v interface{}) string {
	buf, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		log.Println("JSON marshal error: ", err)
		return fmt.Sprintf("%+v", v)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		return string(buf)
	}
	return pretty.String()
}

func dumpPackage(path string, cmd *cobra.Command) {
	log.Printf("Processing %s", path)

	pkg, err := upk.Load(path, nil)
	if err != nil {
		log.Printf("error while opening %s: %v", path, err)
		return
	}
	defer pkg.Close()

	wantAll, _ := cmd.Flags().GetBool("all")

	wantNames, _ := cmd.Flags().GetBool("names")
	if wantAll || wantNames {
		fmt.Println(prettyPrint(pkg.Names))
	}

	wantImport, _ := cmd.Flags().GetBool("import")
	if wantAll || wantImport {
		fmt.Println(prettyPrint(pkg.Imports))
	}

	wantExport, _ := cmd.Flags().GetBool("export")
	if wantAll || wantExport {
		fmt.Println(prettyPrint(pkg.Exports))
	}

	wantThumbs, _ := cmd.Flags().GetBool("thumbnails")
	if wantAll || wantThumbs {
		fmt.Println(prettyPrint(pkg.Thumbnails))
	}

	wantSig, _ := cmd.Flags().GetBool("signature")
	if wantAll || wantSig {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("error while reading %s: %v", path, err)
		} else {
			sig, err := pkg.VerifySignature(path, raw)
			if err != nil {
				log.Printf("error while verifying signature of %s: %v", path, err)
			} else {
				fmt.Println(prettyPrint(sig))
			}
		}
	}

	if pkg.Compressed {
		log.Printf("%s is chunk-compressed; tables were left empty", path)
	}
	for _, a := range pkg.Anomalies {
		log.Printf("%s: %s", path, a)
	}
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func loopFilesWorker(cmd *cobra.Command) {
	for path := range jobs {
		files, err := os.ReadDir(path)
		if err != nil {
			wg.Done()
			continue
		}
		for _, file := range files {
			if !file.IsDir() {
				dumpPackage(filepath.Join(path, file.Name()), cmd)
			}
		}
		wg.Done()
	}
}

func loopDirsFiles(path string, cmd *cobra.Command) error {
	files, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	wg.Add(1)
	go func() { jobs <- path }()

	for _, file := range files {
		if file.IsDir() {
			loopDirsFiles(filepath.Join(path, file.Name()), cmd)
		}
	}
	return nil
}

func dump(cmd *cobra.Command, args []string) {
	target := args[0]

	if !isDirectory(target) {
		dumpPackage(target, cmd)
		return
	}

	for i := 0; i < 4; i++ {
		go loopFilesWorker(cmd)
	}
	if err := loopDirsFiles(target, cmd); err != nil {
		log.Fatal(err)
	}
	wg.Wait()
	close(jobs)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "upkdump",
		Short: "An Unreal Engine package file parser",
		Long:  "Dumps the Name/Import/Export/Thumbnail tables and detached signature of .upk/.u/.uasset files",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("upkdump version 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [file or directory]",
		Short: "Dumps a package's tables",
		Args:  cobra.ExactArgs(1),
		Run:   dump,
	}
	dumpCmd.Flags().BoolVarP(&all, "all", "", false, "dump every table")
	dumpCmd.Flags().BoolVarP(&wantNames, "names", "", false, "dump the name table")
	dumpCmd.Flags().BoolVarP(&wantImport, "import", "", false, "dump the import table")
	dumpCmd.Flags().BoolVarP(&wantExport, "export", "", false, "dump the export table")
	dumpCmd.Flags().BoolVarP(&wantThumbs, "thumbnails", "", false, "dump thumbnail descriptors")
	dumpCmd.Flags().BoolVarP(&wantSig, "signature", "", false, "verify the detached signature sidecar")

	rootCmd.AddCommand(versionCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
