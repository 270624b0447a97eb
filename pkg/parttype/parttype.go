// Package parttype classifies the single byte system ID found in every MBR
// partition record. The table mirrors the fdisk listing and is intentionally
// not exhaustive; vendors keep assigning new codes.
package parttype

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPartitionType is returned when a system ID byte has no entry in the table.
	ErrUnknownPartitionType = errors.New("unrecognized partition type")
)

// PartitionType is the system ID of a partition record.
type PartitionType byte

const (
	Empty                          PartitionType = 0x00
	FAT12                          PartitionType = 0x01
	XenixRoot                      PartitionType = 0x02
	XenixUsr                       PartitionType = 0x03
	FAT16Lt32M                     PartitionType = 0x04
	Extended                       PartitionType = 0x05
	FAT16                          PartitionType = 0x06
	NTFS                           PartitionType = 0x07
	AIX                            PartitionType = 0x08
	AIXBootable                    PartitionType = 0x09
	OS2BootManager                 PartitionType = 0x0A
	W95FAT32                       PartitionType = 0x0B
	W95FAT32LBA                    PartitionType = 0x0C
	W95FAT16LBA                    PartitionType = 0x0E
	W95ExtendedLBA                 PartitionType = 0x0F
	OPUS                           PartitionType = 0x10
	HiddenFAT12                    PartitionType = 0x11
	CompaqDiagnostics              PartitionType = 0x12
	HiddenFAT16Lt32M               PartitionType = 0x14
	HiddenFAT16                    PartitionType = 0x16
	HiddenNTFS                     PartitionType = 0x17
	ASTSmartSleep                  PartitionType = 0x18
	HiddenW95FAT32                 PartitionType = 0x1B
	HiddenW95FAT32LBA              PartitionType = 0x1C
	HiddenW95FAT16LBA              PartitionType = 0x1E
	NECDOS                         PartitionType = 0x24
	HiddenNTFSWinRE                PartitionType = 0x27
	Plan9                          PartitionType = 0x39
	PartitionMagic                 PartitionType = 0x3C
	Venix80286                     PartitionType = 0x40
	PPCPRePBoot                    PartitionType = 0x41
	SFS                            PartitionType = 0x42
	QNX4                           PartitionType = 0x4D
	QNX4Part2                      PartitionType = 0x4E
	QNX4Part3                      PartitionType = 0x4F
	OnTrackDM                      PartitionType = 0x50
	OnTrackDM6Aux1                 PartitionType = 0x51
	CPM                            PartitionType = 0x52
	OnTrackDM6Aux3                 PartitionType = 0x53
	OnTrackDM6DDO                  PartitionType = 0x54
	EZDrive                        PartitionType = 0x55
	GoldenBow                      PartitionType = 0x56
	PriamEdisk                     PartitionType = 0x5C
	SpeedStor                      PartitionType = 0x61
	GNUHurd                        PartitionType = 0x63
	NovellNetware286               PartitionType = 0x64
	NovellNetware386               PartitionType = 0x65
	NovellSMS                      PartitionType = 0x66
	NovellNetware5                 PartitionType = 0x69
	DiskSecureMultiBoot            PartitionType = 0x70
	Scramdisk                      PartitionType = 0x74
	PCIX                           PartitionType = 0x75
	OldMinix                       PartitionType = 0x80
	Minix                          PartitionType = 0x81
	LinuxSwap                      PartitionType = 0x82
	Linux                          PartitionType = 0x83
	OS2HiddenCDrive                PartitionType = 0x84
	LinuxExtended                  PartitionType = 0x85
	NTFSVolumeSet1                 PartitionType = 0x86
	NTFSVolumeSet2                 PartitionType = 0x87
	LinuxKernel                    PartitionType = 0x8A
	LegacyFaultTolerantFAT32       PartitionType = 0x8B
	LegacyFaultTolerantFAT32Int13h PartitionType = 0x8C
	LinuxLVM                       PartitionType = 0x8E
	Amoeba                         PartitionType = 0x93
	AmoebaBBT                      PartitionType = 0x94
	BSDOS                          PartitionType = 0x9F
	ThinkPadHibernation            PartitionType = 0xA0
	FreeBSD                        PartitionType = 0xA5
	OpenBSD                        PartitionType = 0xA6
	NeXTSTEP                       PartitionType = 0xA7
	DarwinUFS                      PartitionType = 0xA8
	NetBSD                         PartitionType = 0xA9
	DarwinBoot                     PartitionType = 0xAB
	HFS                            PartitionType = 0xAF
	BSDIFS                         PartitionType = 0xB7
	BSDISwap                       PartitionType = 0xB8
	BootWizardHidden               PartitionType = 0xBB
	AcronisFAT32                   PartitionType = 0xBC
	Solaris8Boot                   PartitionType = 0xBE
	Solaris                        PartitionType = 0xBF
	DRDOSSecFAT12                  PartitionType = 0xC1
	DRDOSSecFAT16Lt32M             PartitionType = 0xC2
	DRDOSSecExtended               PartitionType = 0xC5
	DRDOSSecFAT16                  PartitionType = 0xC6
	Syrinx                         PartitionType = 0xC7
	NonFSData                      PartitionType = 0xDA
	CPMCTOS                        PartitionType = 0xDB
	DellUtility                    PartitionType = 0xDE
	BootIt                         PartitionType = 0xDF
	DOSAccess                      PartitionType = 0xE1
	DOSRO                          PartitionType = 0xE3
	SpeedStor2                     PartitionType = 0xE4
	LinuxExtendedBoot              PartitionType = 0xEA
	BeOSFS                         PartitionType = 0xEB
	GPTProtective                  PartitionType = 0xEE
	EFISystem                      PartitionType = 0xEF
	LinuxPARISCBoot                PartitionType = 0xF0
	SpeedStor3                     PartitionType = 0xF1
	DOSSecondary                   PartitionType = 0xF2
	SpeedStor4                     PartitionType = 0xF4
	EBBRProtective                 PartitionType = 0xF8
	VMwareVMFS                     PartitionType = 0xFB
	VMwareVMKCORE                  PartitionType = 0xFC
	LinuxRAIDAuto                  PartitionType = 0xFD
	LANstep                        PartitionType = 0xFE
	BBT                            PartitionType = 0xFF
)

var names = map[PartitionType]string{
	Empty:                          "Empty",
	FAT12:                          "FAT12",
	XenixRoot:                      "XENIX root",
	XenixUsr:                       "XENIX usr",
	FAT16Lt32M:                     "FAT16 <32M",
	Extended:                       "Extended",
	FAT16:                          "FAT16",
	NTFS:                           "HPFS/NTFS/exFAT",
	AIX:                            "AIX",
	AIXBootable:                    "AIX bootable",
	OS2BootManager:                 "OS/2 Boot Manager",
	W95FAT32:                       "W95 FAT32",
	W95FAT32LBA:                    "W95 FAT32 (LBA)",
	W95FAT16LBA:                    "W95 FAT16 (LBA)",
	W95ExtendedLBA:                 "W95 Ext'd (LBA)",
	OPUS:                           "OPUS",
	HiddenFAT12:                    "Hidden FAT12",
	CompaqDiagnostics:              "Compaq diagnostics",
	HiddenFAT16Lt32M:               "Hidden FAT16 <32M",
	HiddenFAT16:                    "Hidden FAT16",
	HiddenNTFS:                     "Hidden HPFS/NTFS",
	ASTSmartSleep:                  "AST SmartSleep",
	HiddenW95FAT32:                 "Hidden W95 FAT32",
	HiddenW95FAT32LBA:              "Hidden W95 FAT32 (LBA)",
	HiddenW95FAT16LBA:              "Hidden W95 FAT16 (LBA)",
	NECDOS:                         "NEC DOS",
	HiddenNTFSWinRE:                "Hidden NTFS WinRE",
	Plan9:                          "Plan 9",
	PartitionMagic:                 "PartitionMagic recovery",
	Venix80286:                     "Venix 80286",
	PPCPRePBoot:                    "PPC PReP Boot",
	SFS:                            "SFS",
	QNX4:                           "QNX4.x",
	QNX4Part2:                      "QNX4.x 2nd part",
	QNX4Part3:                      "QNX4.x 3rd part",
	OnTrackDM:                      "OnTrack DM",
	OnTrackDM6Aux1:                 "OnTrack DM6 Aux1",
	CPM:                            "CP/M",
	OnTrackDM6Aux3:                 "OnTrack DM6 Aux3",
	OnTrackDM6DDO:                  "OnTrackDM6",
	EZDrive:                        "EZ-Drive",
	GoldenBow:                      "Golden Bow",
	PriamEdisk:                     "Priam Edisk",
	SpeedStor:                      "SpeedStor",
	GNUHurd:                        "GNU HURD or SysV",
	NovellNetware286:               "Novell Netware 286",
	NovellNetware386:               "Novell Netware 386",
	NovellSMS:                      "Novell Netware SMS",
	NovellNetware5:                 "Novell Netware 5+",
	DiskSecureMultiBoot:            "DiskSecure Multi-Boot",
	Scramdisk:                      "Scramdisk",
	PCIX:                           "PC/IX",
	OldMinix:                       "Old Minix",
	Minix:                          "Minix / old Linux",
	LinuxSwap:                      "Linux swap / Solaris",
	Linux:                          "Linux",
	OS2HiddenCDrive:                "OS/2 hidden C: drive",
	LinuxExtended:                  "Linux extended",
	NTFSVolumeSet1:                 "NTFS volume set",
	NTFSVolumeSet2:                 "NTFS volume set",
	LinuxKernel:                    "Linux plaintext",
	LegacyFaultTolerantFAT32:       "Legacy fault-tolerant FAT32",
	LegacyFaultTolerantFAT32Int13h: "Legacy fault-tolerant FAT32 (INT 13h)",
	LinuxLVM:                       "Linux LVM",
	Amoeba:                         "Amoeba",
	AmoebaBBT:                      "Amoeba BBT",
	BSDOS:                          "BSD/OS",
	ThinkPadHibernation:            "IBM Thinkpad hibernation",
	FreeBSD:                        "FreeBSD",
	OpenBSD:                        "OpenBSD",
	NeXTSTEP:                       "NeXTSTEP",
	DarwinUFS:                      "Darwin UFS",
	NetBSD:                         "NetBSD",
	DarwinBoot:                     "Darwin boot",
	HFS:                            "HFS / HFS+",
	BSDIFS:                         "BSDI fs",
	BSDISwap:                       "BSDI swap",
	BootWizardHidden:               "Boot Wizard hidden",
	AcronisFAT32:                   "Acronis FAT32 LBA",
	Solaris8Boot:                   "Solaris boot",
	Solaris:                        "Solaris",
	DRDOSSecFAT12:                  "DRDOS/sec (FAT-12)",
	DRDOSSecFAT16Lt32M:             "DRDOS/sec (FAT-16 < 32M)",
	DRDOSSecExtended:               "DRDOS/sec (extended)",
	DRDOSSecFAT16:                  "DRDOS/sec (FAT-16)",
	Syrinx:                         "Syrinx",
	NonFSData:                      "Non-FS data",
	CPMCTOS:                        "CP/M / CTOS / ...",
	DellUtility:                    "Dell Utility",
	BootIt:                         "BootIt",
	DOSAccess:                      "DOS access",
	DOSRO:                          "DOS R/O",
	SpeedStor2:                     "SpeedStor",
	LinuxExtendedBoot:              "Linux extended boot",
	BeOSFS:                         "BeOS fs",
	GPTProtective:                  "GPT",
	EFISystem:                      "EFI (FAT-12/16/32)",
	LinuxPARISCBoot:                "Linux/PA-RISC boot",
	SpeedStor3:                     "SpeedStor",
	DOSSecondary:                   "DOS secondary",
	SpeedStor4:                     "SpeedStor",
	EBBRProtective:                 "EBBR protective",
	VMwareVMFS:                     "VMware VMFS",
	VMwareVMKCORE:                  "VMware VMKCORE",
	LinuxRAIDAuto:                  "Linux raid autodetect",
	LANstep:                        "LANstep",
	BBT:                            "BBT",
}

// Lookup maps a raw system ID byte to its PartitionType. Bytes missing from
// the table are still returned, together with ErrUnknownPartitionType, so the
// caller can decide whether the value is fatal.
func Lookup(b byte) (PartitionType, error) {
	pt := PartitionType(b)
	if !pt.IsKnown() {
		return pt, fmt.Errorf("%w: 0x%02x", ErrUnknownPartitionType, b)
	}
	return pt, nil
}

// IsKnown reports whether the type has an entry in the table.
func (p PartitionType) IsKnown() bool {
	_, ok := names[p]
	return ok
}

// IsEmpty reports whether the record is unused.
func (p PartitionType) IsEmpty() bool {
	return p == Empty
}

// IsExtended reports whether the type marks a container of logical
// partitions. The chain itself is never followed.
func (p PartitionType) IsExtended() bool {
	switch p {
	case Extended, W95ExtendedLBA, LinuxExtended:
		return true
	}
	return false
}

// IsProtective reports whether the record only exists to guard a GPT disk.
func (p PartitionType) IsProtective() bool {
	return p == GPTProtective
}

func (p PartitionType) String() string {
	if name, ok := names[p]; ok {
		return name
	}
	return fmt.Sprintf("unrecognized (0x%02x)", byte(p))
}
